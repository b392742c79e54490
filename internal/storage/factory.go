// Package storage selects a storage backend from configuration.
package storage

import (
	"fmt"

	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/storage/memory"
	"github.com/bobmcallan/satchel/internal/storage/surrealdb"
)

// Driver constants.
const (
	DriverSurrealDB = "surrealdb"
	DriverMemory    = "memory"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported drivers: "surrealdb" (default), "memory".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	driver := config.Storage.Driver
	if driver == "" {
		driver = DriverSurrealDB
	}

	switch driver {
	case DriverSurrealDB:
		return surrealdb.NewManager(logger, config)

	case DriverMemory:
		return memory.NewManager(logger), nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: surrealdb, memory)", driver)
	}
}
