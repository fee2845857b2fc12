package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
)

// MemoryDB is an in-process Store. Transactions are serialised by a single mutex and
// run against a copy of the state that replaces the committed state only when fn succeeds.
type MemoryDB struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	projects      map[string]*model.Project
	incomes       map[string]*model.ProjectIncome
	participants  map[string]*model.Participant
	volunteers    map[string]*model.Volunteer
	organizations map[string]*model.Organization
}

// NewMemoryDB creates an empty in-memory store
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{state: newMemState()}
}

func newMemState() *memState {
	return &memState{
		projects:      make(map[string]*model.Project),
		incomes:       make(map[string]*model.ProjectIncome),
		participants:  make(map[string]*model.Participant),
		volunteers:    make(map[string]*model.Volunteer),
		organizations: make(map[string]*model.Organization),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, p := range s.projects {
		c.projects[id] = p.Clone()
	}
	for id, i := range s.incomes {
		v := *i
		c.incomes[id] = &v
	}
	for id, p := range s.participants {
		v := *p
		c.participants[id] = &v
	}
	for id, v := range s.volunteers {
		c.volunteers[id] = cloneVolunteer(v)
	}
	for id, o := range s.organizations {
		c.organizations[id] = cloneOrganization(o)
	}
	return c
}

func cloneVolunteer(v *model.Volunteer) *model.Volunteer {
	c := *v
	if v.DeletedAt != nil {
		t := *v.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func cloneOrganization(o *model.Organization) *model.Organization {
	c := *o
	if o.DeletedAt != nil {
		t := *o.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// InTx runs fn against a private copy of the state. The copy is committed only when fn
// returns nil; the store stays locked for the whole call.
func (db *MemoryDB) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := db.state.clone()
	if err := fn(ctx, &memTx{s: work}); err != nil {
		return err
	}
	db.state = work
	return nil
}

func (db *MemoryDB) GetProject(ctx context.Context, id string) (*model.Project, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.getProject(id)
}

func (db *MemoryDB) GetIncome(ctx context.Context, id string) (*model.ProjectIncome, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.getIncome(id)
}

func (db *MemoryDB) ListIncomesByProject(ctx context.Context, projectID string) ([]model.ProjectIncome, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.filterIncomes(func(i *model.ProjectIncome) bool { return i.ProjectID == projectID }), nil
}

func (db *MemoryDB) ListIncomesByVolunteer(ctx context.Context, volunteerID string) ([]model.ProjectIncome, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.filterIncomes(func(i *model.ProjectIncome) bool { return i.VolunteerID == volunteerID }), nil
}

func (db *MemoryDB) ListParticipants(ctx context.Context, projectID string) ([]model.Participant, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.filterParticipants(func(p *model.Participant) bool { return p.ProjectID == projectID }), nil
}

func (db *MemoryDB) ListParticipationsByVolunteer(ctx context.Context, volunteerID string) ([]model.Participant, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.filterParticipants(func(p *model.Participant) bool { return p.VolunteerID == volunteerID }), nil
}

func (db *MemoryDB) GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok := db.state.volunteers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneVolunteer(v), nil
}

func (db *MemoryDB) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	o, ok := db.state.organizations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrganization(o), nil
}

func (s *memState) getProject(id string) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (s *memState) getIncome(id string) (*model.ProjectIncome, error) {
	i, ok := s.incomes[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := *i
	return &v, nil
}

func (s *memState) filterIncomes(keep func(*model.ProjectIncome) bool) []model.ProjectIncome {
	var out []model.ProjectIncome
	for _, i := range s.incomes {
		if keep(i) {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out
}

func (s *memState) filterParticipants(keep func(*model.Participant) bool) []model.Participant {
	var out []model.Participant
	for _, p := range s.participants {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out
}

type memTx struct {
	s *memState
}

func (tx *memTx) GetProjectForUpdate(ctx context.Context, id string) (*model.Project, error) {
	return tx.s.getProject(id)
}

func (tx *memTx) InsertProject(ctx context.Context, p *model.Project) error {
	if _, ok := tx.s.projects[p.ID]; ok {
		return UniqueViolation("projects_pkey", nil)
	}
	if err := tx.checkProjectName(p); err != nil {
		return err
	}
	tx.s.projects[p.ID] = p.Clone()
	return nil
}

func (tx *memTx) UpdateProject(ctx context.Context, p *model.Project) error {
	if _, ok := tx.s.projects[p.ID]; !ok {
		return ErrNotFound
	}
	if err := tx.checkProjectName(p); err != nil {
		return err
	}
	tx.s.projects[p.ID] = p.Clone()
	return nil
}

func (tx *memTx) checkProjectName(p *model.Project) error {
	for id, other := range tx.s.projects {
		if id != p.ID && other.Name == p.Name {
			return UniqueViolation(ConstraintProjectName, nil)
		}
	}
	return nil
}

func (tx *memTx) DeleteProject(ctx context.Context, id string) error {
	if _, ok := tx.s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.projects, id)
	for iid, i := range tx.s.incomes {
		if i.ProjectID == id {
			delete(tx.s.incomes, iid)
		}
	}
	for pid, p := range tx.s.participants {
		if p.ProjectID == id {
			delete(tx.s.participants, pid)
		}
	}
	return nil
}

func (tx *memTx) GetIncomeForUpdate(ctx context.Context, id string) (*model.ProjectIncome, error) {
	return tx.s.getIncome(id)
}

func (tx *memTx) FindIncomes(ctx context.Context, projectID, volunteerID string) ([]model.ProjectIncome, error) {
	return tx.s.filterIncomes(func(i *model.ProjectIncome) bool {
		return i.ProjectID == projectID && i.VolunteerID == volunteerID
	}), nil
}

func (tx *memTx) InsertIncome(ctx context.Context, income *model.ProjectIncome) error {
	if _, ok := tx.s.projects[income.ProjectID]; !ok {
		return ErrNotFound
	}
	if _, ok := tx.s.incomes[income.ID]; ok {
		return UniqueViolation("project_incomes_pkey", nil)
	}
	if err := tx.checkIncomeStatus(income.ID, income.ProjectID, income.VolunteerID, income.Status); err != nil {
		return err
	}
	v := *income
	tx.s.incomes[income.ID] = &v
	return nil
}

func (tx *memTx) UpdateIncomeStatus(ctx context.Context, id string, status model.IncomeStatus, at time.Time) error {
	i, ok := tx.s.incomes[id]
	if !ok {
		return ErrNotFound
	}
	if err := tx.checkIncomeStatus(id, i.ProjectID, i.VolunteerID, status); err != nil {
		return err
	}
	i.Status = status
	i.UpdatedAt = at
	return nil
}

func (tx *memTx) checkIncomeStatus(id, projectID, volunteerID string, status model.IncomeStatus) error {
	for oid, other := range tx.s.incomes {
		if oid != id && other.ProjectID == projectID && other.VolunteerID == volunteerID && other.Status == status {
			return UniqueViolation(ConstraintIncomeStatus, nil)
		}
	}
	return nil
}

func (tx *memTx) DeleteIncome(ctx context.Context, id string) error {
	if _, ok := tx.s.incomes[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.incomes, id)
	return nil
}

func (tx *memTx) GetParticipant(ctx context.Context, projectID, volunteerID string) (*model.Participant, error) {
	for _, p := range tx.s.participants {
		if p.ProjectID == projectID && p.VolunteerID == volunteerID {
			v := *p
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (tx *memTx) InsertParticipant(ctx context.Context, p *model.Participant) error {
	if _, ok := tx.s.projects[p.ProjectID]; !ok {
		return ErrNotFound
	}
	for _, other := range tx.s.participants {
		if other.ProjectID == p.ProjectID && other.VolunteerID == p.VolunteerID {
			return UniqueViolation(ConstraintParticipantUnique, nil)
		}
	}
	v := *p
	tx.s.participants[p.ID] = &v
	return nil
}

func (tx *memTx) DeleteParticipant(ctx context.Context, id string) error {
	if _, ok := tx.s.participants[id]; !ok {
		return ErrNotFound
	}
	delete(tx.s.participants, id)
	return nil
}

func (tx *memTx) UpsertVolunteer(ctx context.Context, v *model.Volunteer) error {
	tx.s.volunteers[v.ID] = cloneVolunteer(v)
	return nil
}

func (tx *memTx) UpsertOrganization(ctx context.Context, o *model.Organization) error {
	tx.s.organizations[o.ID] = cloneOrganization(o)
	return nil
}
