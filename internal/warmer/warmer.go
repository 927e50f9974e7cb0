package warmer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"storefront/internal/domain"
	"storefront/internal/service/catalog"
)

// Row kinds understood by the warmer.
const (
	KindProduct            = "product"
	KindCollection         = "collection"
	KindCollectionProducts = "collection-products"
	KindCollections        = "collections"
	KindMenu               = "menu"
)

// Catalog is the read side of the catalog service that the warmer drives.
type Catalog interface {
	Product(ctx context.Context, handle string) (*domain.Product, error)
	Collection(ctx context.Context, handle string) (*domain.Collection, error)
	CollectionProducts(ctx context.Context, in catalog.CollectionProductsInput) ([]domain.Product, error)
	Collections(ctx context.Context) ([]domain.Collection, error)
	Menu(ctx context.Context, handle string) ([]domain.Menu, error)
}

var _ Catalog = (*catalog.Service)(nil)

// CSVWarmer reads "kind,handle" rows and loads each entry through the
// catalog so the cache is populated before traffic arrives.
type CSVWarmer struct {
	reader  *csv.Reader
	catalog Catalog
	logger  logr.Logger
}

func NewCSVWarmer(r io.Reader, c Catalog, logger logr.Logger) *CSVWarmer {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	csvr.Comment = '#'
	return &CSVWarmer{
		reader:  csvr,
		catalog: c,
		logger:  logger.WithName("warmer"),
	}
}

type row struct {
	line   int
	kind   string
	handle string
}

// Run warms every row and returns how many entries were loaded. A row whose
// handle is unknown upstream is logged and skipped; transport errors abort.
func (w *CSVWarmer) Run(ctx context.Context) (int, error) {
	var (
		warmed int
		first  = true
	)
	for {
		record, err := w.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return warmed, fmt.Errorf("read row: %w", err)
		}
		line, _ := w.reader.FieldPos(0)

		r, ok := parseRow(record, line, first)
		first = false
		if !ok {
			continue
		}
		found, err := w.warm(ctx, r)
		if err != nil {
			return warmed, fmt.Errorf("line %d: warm %s %q: %w", r.line, r.kind, r.handle, err)
		}
		if !found {
			w.logger.Info("skipping unknown entry", "line", r.line, "kind", r.kind, "handle", r.handle)
			continue
		}
		warmed++
	}
	return warmed, nil
}

func (w *CSVWarmer) warm(ctx context.Context, r row) (bool, error) {
	switch r.kind {
	case KindProduct:
		p, err := w.catalog.Product(ctx, r.handle)
		return p != nil, err
	case KindCollection:
		c, err := w.catalog.Collection(ctx, r.handle)
		return c != nil, err
	case KindCollectionProducts:
		_, err := w.catalog.CollectionProducts(ctx, catalog.CollectionProductsInput{Collection: r.handle})
		return true, err
	case KindCollections:
		_, err := w.catalog.Collections(ctx)
		return true, err
	case KindMenu:
		m, err := w.catalog.Menu(ctx, r.handle)
		return len(m) > 0, err
	default:
		return false, fmt.Errorf("unknown kind %q", r.kind)
	}
}

// parseRow skips empty kinds and an optional "kind,handle" header on the
// first record.
func parseRow(record []string, line int, first bool) (row, bool) {
	kind := strings.ToLower(pick(record, 0))
	handle := pick(record, 1)
	if kind == "" || (first && kind == "kind") {
		return row{}, false
	}
	return row{line: line, kind: kind, handle: handle}, true
}

func pick(record []string, pos int) string {
	if pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
