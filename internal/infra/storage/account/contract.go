package account

import (
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
