package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	repo "github.com/mamadbah2/stockdesk/internal/repository/sheets"
)

const (
	dateLayout    = "2006-01-02"
	snapshotRange = "LowStock!A:G"
	// maxListed bounds the number of records named per section of the alert text.
	maxListed = 20
)

// Scanner walks the full inventory.
type Scanner interface {
	ScanAll(ctx context.Context) ([]models.InventoryRecord, error)
}

// Notifier delivers the digest text.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Service builds the low-stock digest and distributes it.
type Service struct {
	scanner  Scanner
	repo     repo.Repository
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. The sheets repository
// and the notifier are optional.
func NewService(scanner Scanner, repository repo.Repository, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scanner: scanner, repo: repository, notifier: notifier, logger: logger, now: time.Now}
}

// BuildDigest scans all inventory and keeps the records that need restocking.
func (s *Service) BuildDigest(ctx context.Context) (*models.StockDigest, error) {
	records, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan inventory: %w", err)
	}

	digest := &models.StockDigest{
		GeneratedAt: s.now(),
		Low:         []models.InventoryView{},
		Out:         []models.InventoryView{},
		Scanned:     len(records),
	}
	for _, record := range records {
		view := stock.View(record)
		switch view.Status {
		case models.StatusOutOfStock:
			digest.Out = append(digest.Out, view)
		case models.StatusLowStock:
			digest.Low = append(digest.Low, view)
		}
	}
	return digest, nil
}

// FormatDigest renders the digest as a plain text message.
func FormatDigest(d *models.StockDigest) string {
	day := d.GeneratedAt.Format(dateLayout)
	if len(d.Low) == 0 && len(d.Out) == 0 {
		return fmt.Sprintf("Stock digest (%s): all %d items in stock.", day, d.Scanned)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock digest (%s): %d out of stock, %d low across %d items.", day, len(d.Out), len(d.Low), d.Scanned)
	writeSection(&b, "Out of stock", d.Out)
	writeSection(&b, "Low stock", d.Low)
	return b.String()
}

func writeSection(b *strings.Builder, title string, views []models.InventoryView) {
	if len(views) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:", title)
	for i, v := range views {
		if i == maxListed {
			fmt.Fprintf(b, "\n... and %d more", len(views)-maxListed)
			break
		}
		fmt.Fprintf(b, "\n- %s (%s): %d %s", v.ProductName, v.ProductCode, v.Quantity, v.Unit)
	}
}

// SnapshotRows converts the digest into sheet rows, out of stock first.
func SnapshotRows(d *models.StockDigest) [][]interface{} {
	day := d.GeneratedAt.Format(dateLayout)
	rows := make([][]interface{}, 0, len(d.Out)+len(d.Low))
	for _, group := range [][]models.InventoryView{d.Out, d.Low} {
		for _, v := range group {
			rows = append(rows, []interface{}{day, v.ID, v.ProductCode, v.ProductName, v.Quantity, v.Unit, string(v.Status)})
		}
	}
	return rows
}

// Run builds the digest, appends it to the sheet and sends the alert. Export
// and notification failures are returned together after both were attempted.
func (s *Service) Run(ctx context.Context) (*models.StockDigest, error) {
	digest, err := s.BuildDigest(ctx)
	if err != nil {
		s.logger.Error("failed to build stock digest", zap.Error(err))
		return nil, err
	}

	var errs []error
	if s.repo != nil {
		if err := s.repo.AppendRows(ctx, snapshotRange, SnapshotRows(digest)); err != nil {
			s.logger.Error("failed to export stock digest", zap.Error(err))
			errs = append(errs, fmt.Errorf("export digest: %w", err))
		}
	}
	if s.notifier != nil && (len(digest.Low) > 0 || len(digest.Out) > 0) {
		if err := s.notifier.Notify(ctx, FormatDigest(digest)); err != nil {
			errs = append(errs, fmt.Errorf("notify digest: %w", err))
		}
	}

	s.logger.Info("stock digest generated",
		zap.Int("scanned", digest.Scanned),
		zap.Int("low", len(digest.Low)),
		zap.Int("out", len(digest.Out)))
	return digest, errors.Join(errs...)
}
