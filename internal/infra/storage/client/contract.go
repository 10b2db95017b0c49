package client

import "github.com/m04kA/salon-booking/pkg/txmanager"

type DBExecutor = txmanager.DBExecutor
