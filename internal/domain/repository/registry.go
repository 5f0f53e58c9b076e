package repository

// Registry agrupa los puertos de persistencia. Los repos que entrega un TxRunner
// comparten la misma transacción.
type Registry interface {
	Companies() CompanyRepository
	Users() UserRepository
	Profiles() ProfileRepository
	Rocks() RockRepository
	Movements() StockMovementRepository
	Balances() StockBalanceRepository
	Vacancies() VacancyRepository
}
