package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_WrappedError(t *testing.T) {
	err := fmt.Errorf("accept failed: %w", New(CodeAlreadyParticipant, "volunteer %s is already a participant", "vol-1"))

	assert.True(t, Is(err, CodeAlreadyParticipant))
	assert.False(t, Is(err, CodeAlreadyRejected))
	assert.Equal(t, CodeAlreadyParticipant, CodeOf(err))
}

func TestCodeOf_ForeignError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindStateConflict, KindOf(CodeProjectLocked))
	assert.Equal(t, KindAuthorization, KindOf(CodeIneligibleProject))
	assert.Equal(t, KindAuthorization, KindOf(CodeNotAuthorized))
	assert.Equal(t, KindValidation, KindOf(CodeIllegalTransition))
	assert.Equal(t, KindInternal, KindOf(Code("SOMETHING_ELSE")))
}

func TestFieldErrors_CollectsAllMessages(t *testing.T) {
	fields := FieldErrors{}
	fields.Add("start_datetime", "too early")
	fields.Add("start_datetime", "hour %d outside business hours", 7)
	fields.Add("end_datetime", "too late")

	require.Len(t, fields["start_datetime"], 2)
	assert.Equal(t, "hour 7 outside business hours", fields["start_datetime"][1])
	assert.Equal(t, "end_datetime: too late, start_datetime: too early; hour 7 outside business hours", fields.String())

	err := fields.Err()
	require.Error(t, err)
	assert.True(t, Is(err, CodeValidation))
}

func TestFieldErrors_EmptyIsNil(t *testing.T) {
	assert.NoError(t, FieldErrors{}.Err())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := Wrap(CodeDuplicateApplication, cause, "application already exists")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "DUPLICATE_APPLICATION: application already exists")
}
