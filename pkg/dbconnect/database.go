package dbconnect

import "database/sql"

// Database -- подключение к хранилищу журнала задач: Connect открывает пул,
// Ping проверяет его для /healthz.
type Database interface {
	Connect() (*sql.DB, error)
	Ping() error
}
