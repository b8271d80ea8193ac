package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
)

// CatalogSource reads the products and stores a snapshot is built from.
type CatalogSource interface {
	// ListCatalogProducts returns active products, only those with stock when inStockOnly is set.
	ListCatalogProducts(ctx context.Context, inStockOnly bool) ([]model.Product, error)
	ListStores(ctx context.Context) ([]model.Store, error)
}

type snapshot struct {
	products  []model.Product
	byID      map[uuid.UUID]int
	stores    []model.Store
	storeByID map[uuid.UUID]int
	loadedAt  time.Time
}

// Catalog is a point-in-time view of products and stores for one kind of
// transaction. It is never authoritative for stock: the backend decides at commit.
type Catalog struct {
	kind      Kind
	source    CatalogSource
	logger    *slog.Logger
	minSearch int

	mu   sync.RWMutex
	snap *snapshot
}

// NewCatalog creates an empty catalog. Search terms shorter than minSearch runes
// return no candidates.
func NewCatalog(kind Kind, source CatalogSource, minSearch int, logger *slog.Logger) *Catalog {
	return &Catalog{
		kind:      kind,
		source:    source,
		minSearch: minSearch,
		logger:    logger.With(slog.String("catalog", kind.String())),
		snap:      &snapshot{byID: map[uuid.UUID]int{}, storeByID: map[uuid.UUID]int{}},
	}
}

func (c *Catalog) Kind() Kind { return c.kind }

// Load replaces the snapshot. On failure the previous snapshot stays in effect.
func (c *Catalog) Load(ctx context.Context) error {
	products, err := c.source.ListCatalogProducts(ctx, c.kind == KindSale)
	if err != nil {
		c.logger.WarnContext(ctx, "error loading catalog products, keeping previous snapshot", slog.Any("error", err))
		return apperr.ErrDataAccess.WrapParent(fmt.Errorf("list catalog products: %w", err))
	}

	stores, err := c.source.ListStores(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "error loading stores, keeping previous snapshot", slog.Any("error", err))
		return apperr.ErrDataAccess.WrapParent(fmt.Errorf("list stores: %w", err))
	}

	snap := &snapshot{
		products:  make([]model.Product, 0, len(products)),
		byID:      make(map[uuid.UUID]int, len(products)),
		stores:    stores,
		storeByID: make(map[uuid.UUID]int, len(stores)),
		loadedAt:  time.Now(),
	}
	for _, p := range products {
		if !p.Active || (c.kind == KindSale && p.StockQuantity < 1) {
			continue
		}
		snap.byID[p.ID] = len(snap.products)
		snap.products = append(snap.products, p)
	}
	for i, s := range stores {
		snap.storeByID[s.ID] = i
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "catalog loaded",
		slog.Int("products", len(snap.products)),
		slog.Int("stores", len(snap.stores)),
	)

	return nil
}

// LoadedAt is the zero time until the first successful Load.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.loadedAt
}

func (c *Catalog) FindByID(id uuid.UUID) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.snap.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.snap.products[i], true
}

// Search is the interactive lookup: case-insensitive substring match on name,
// color and every scannable code.
func (c *Catalog) Search(term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || utf8.RuneCountInString(term) < c.minSearch {
		return []model.Product{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Product, 0)
	for _, p := range c.snap.products {
		if matchesTerm(p, term) {
			out = append(out, p)
		}
	}
	return out
}

// LookupByCode is the scanner lookup: exact, case-insensitive match on any code.
// Anything other than exactly one match is reported as not found.
func (c *Catalog) LookupByCode(code string) (model.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.Product{}, apperr.ErrProductNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		found model.Product
		n     int
	)
	for _, p := range c.snap.products {
		for _, pc := range p.Codes() {
			if strings.EqualFold(pc, code) {
				found = p
				n++
				break
			}
		}
	}

	switch n {
	case 1:
		return found, nil
	case 0:
		return model.Product{}, apperr.ErrProductNotFound.WithMsg(fmt.Sprintf("no product with code %s", code))
	default:
		return model.Product{}, apperr.ErrProductNotFound.WithMsg(fmt.Sprintf("code %s matches %d products", code, n))
	}
}

// Products returns a copy of every product in the snapshot.
func (c *Catalog) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Product, len(c.snap.products))
	copy(out, c.snap.products)
	return out
}

func (c *Catalog) Stores() []model.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Store, len(c.snap.stores))
	copy(out, c.snap.stores)
	return out
}

func (c *Catalog) Store(id uuid.UUID) (model.Store, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.snap.storeByID[id]
	if !ok {
		return model.Store{}, false
	}
	return c.snap.stores[i], true
}

func matchesTerm(p model.Product, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Color), term) {
		return true
	}
	for _, code := range p.Codes() {
		if strings.Contains(strings.ToLower(code), term) {
			return true
		}
	}
	return false
}

// Catalogs bundles the sale and transfer snapshots kept by one process.
type Catalogs struct {
	Sale     *Catalog
	Transfer *Catalog
}

func NewCatalogs(source CatalogSource, minSearch int, logger *slog.Logger) *Catalogs {
	return &Catalogs{
		Sale:     NewCatalog(KindSale, source, minSearch, logger),
		Transfer: NewCatalog(KindTransfer, source, minSearch, logger),
	}
}

func (c *Catalogs) For(kind Kind) *Catalog {
	if kind == KindTransfer {
		return c.Transfer
	}
	return c.Sale
}

// Reload loads both snapshots. A failure in one does not prevent loading the other.
func (c *Catalogs) Reload(ctx context.Context) error {
	return errors.Join(c.Sale.Load(ctx), c.Transfer.Load(ctx))
}
