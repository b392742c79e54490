// Package memory implements the storage contracts with in-process maps.
// It backs local development and the unit test suites; semantics mirror
// the SurrealDB manager, including per-record atomicity of the
// conditional stock and status updates.
package memory

import (
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/interfaces"
)

// Manager implements interfaces.StorageManager over in-process maps.
type Manager struct {
	users   *UserStore
	catalog *CatalogStore
	carts   *CartStore
	orders  *OrderStore
	files   *FileStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager(logger *common.Logger) *Manager {
	return &Manager{
		users:   NewUserStore(),
		catalog: NewCatalogStore(),
		carts:   NewCartStore(),
		orders:  NewOrderStore(),
		files:   NewFileStore(),
	}
}

func (m *Manager) Users() interfaces.UserStore       { return m.users }
func (m *Manager) Catalog() interfaces.CatalogStore  { return m.catalog }
func (m *Manager) Carts() interfaces.CartStore       { return m.carts }
func (m *Manager) Orders() interfaces.OrderStore     { return m.orders }
func (m *Manager) Files() interfaces.FileStore       { return m.files }

func (m *Manager) Close() error { return nil }

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
