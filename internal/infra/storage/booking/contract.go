package booking

import "github.com/m04kA/salon-booking/pkg/txmanager"

// DBExecutor общий интерфейс *sql.DB и *sql.Tx, транзакция берётся из контекста
type DBExecutor = txmanager.DBExecutor
