// Package memory implementa los puertos de persistencia en memoria, con la misma semántica
// que el adaptador PostgreSQL: claves únicas, lecturas por igualdad y transacciones
// atómicas (todo o nada). Se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/rochas-api/internal/application/ports"
	"github.com/jhoicas/rochas-api/internal/domain/entity"
	"github.com/jhoicas/rochas-api/internal/domain/repository"
)

var (
	_ repository.Registry = (*Store)(nil)
	_ ports.TxRunner      = (*Store)(nil)
)

// Operaciones en las que se puede inyectar un fallo (ver InjectFault).
const (
	FaultMovementCreate = "movements.create"
	FaultBalanceUpsert  = "balances.upsert"
	FaultBalanceList    = "balances.list"
	FaultRockFind       = "rocks.find"
	FaultRockCreate     = "rocks.create"
	FaultProfileGet     = "profiles.get"
	FaultTxBegin        = "tx.begin"
)

type state struct {
	companies map[string]entity.Company
	users     map[string]entity.User
	profiles  map[string]entity.UserProfile
	rocks     map[string]entity.Rock
	movements map[string][]entity.StockMovement // por roca, en orden de inserción
	balances  map[string]entity.StockBalance
	vacancies map[string]entity.Vacancy
}

func newState() *state {
	return &state{
		companies: make(map[string]entity.Company),
		users:     make(map[string]entity.User),
		profiles:  make(map[string]entity.UserProfile),
		rocks:     make(map[string]entity.Rock),
		movements: make(map[string][]entity.StockMovement),
		balances:  make(map[string]entity.StockBalance),
		vacancies: make(map[string]entity.Vacancy),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.rocks {
		c.rocks[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = append([]entity.StockMovement(nil), v...)
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.vacancies {
		c.vacancies[k] = v
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un único lock y
// trabajan sobre una copia del estado que sólo se publica en el commit.
type Store struct {
	mu sync.RWMutex
	st *state

	faultMu sync.Mutex
	faults  map[string]error
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// InjectFault hace que la próxima ejecución de op falle con err (una sola vez).
func (s *Store) InjectFault(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return err
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve nil la copia pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Registry) error) error {
	if err := s.fault(FaultTxBegin); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	work := s.st.clone()
	if err := fn(&registry{store: s, st: work, inTx: true}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) live() *registry { return &registry{store: s} }

func (s *Store) Companies() repository.CompanyRepository       { return companyRepo{s.live()} }
func (s *Store) Users() repository.UserRepository              { return userRepo{s.live()} }
func (s *Store) Profiles() repository.ProfileRepository        { return profileRepo{s.live()} }
func (s *Store) Rocks() repository.RockRepository              { return rockRepo{s.live()} }
func (s *Store) Movements() repository.StockMovementRepository { return movementRepo{s.live()} }
func (s *Store) Balances() repository.StockBalanceRepository   { return balanceRepo{s.live()} }
func (s *Store) Vacancies() repository.VacancyRepository       { return vacancyRepo{s.live()} }

// registry vista del almacén: en vivo (bloquea por operación) o dentro de una tx (ya bloqueado).
type registry struct {
	store *Store
	st    *state
	inTx  bool
}

func (r *registry) Companies() repository.CompanyRepository       { return companyRepo{r} }
func (r *registry) Users() repository.UserRepository              { return userRepo{r} }
func (r *registry) Profiles() repository.ProfileRepository        { return profileRepo{r} }
func (r *registry) Rocks() repository.RockRepository              { return rockRepo{r} }
func (r *registry) Movements() repository.StockMovementRepository { return movementRepo{r} }
func (r *registry) Balances() repository.StockBalanceRepository   { return balanceRepo{r} }
func (r *registry) Vacancies() repository.VacancyRepository       { return vacancyRepo{r} }

func (r *registry) view(op string, fn func(st *state) error) error {
	if err := r.store.fault(op); err != nil {
		return err
	}
	if r.inTx {
		return fn(r.st)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.st)
}

func (r *registry) update(op string, fn func(st *state) error) error {
	if err := r.store.fault(op); err != nil {
		return err
	}
	if r.inTx {
		return fn(r.st)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.st)
}

func now() time.Time { return time.Now().UTC() }
