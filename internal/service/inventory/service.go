package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/domain/models"
	"github.com/mamadbah2/stockdesk/internal/domain/stock"
	"github.com/mamadbah2/stockdesk/internal/metrics"
	"github.com/mamadbah2/stockdesk/pkg/clients/catalog"
)

var (
	// ErrItemNotFound indicates an inventory id absent from the catalog listing.
	ErrItemNotFound = errors.New("inventory item not found")
	// ErrEmptySelection indicates a bulk operation without any selected record.
	ErrEmptySelection = errors.New("no inventory items selected")
	// ErrInvalidDate indicates an effective date that could not be parsed.
	ErrInvalidDate = errors.New("invalid effective date")
)

// maxScanPages bounds full inventory walks.
const maxScanPages = 500

// Journal stores and reads confirmed stock adjustments.
type Journal interface {
	AppendAdjustments(ctx context.Context, entries []models.AdjustmentEntry) error
	ListAdjustments(ctx context.Context, inventoryID string, limit int64) ([]models.AdjustmentEntry, error)
}

// Options tunes the inventory service.
type Options struct {
	PageSize       int
	LookupLimit    int
	AllowReduction bool
	// Location resolves blank effective dates. Defaults to time.Local.
	Location *time.Location
}

// Service implements the inventory screens on top of the catalog API.
type Service struct {
	client  catalog.Client
	journal Journal
	metrics *metrics.Recorder
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new inventory service instance.
func NewService(client catalog.Client, journal Journal, recorder *metrics.Recorder, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.LookupLimit <= 0 {
		opts.LookupLimit = 100
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	loc := opts.Location
	return &Service{
		client:  client,
		journal: journal,
		metrics: recorder,
		opts:    opts,
		logger:  logger,
		now:     func() time.Time { return time.Now().In(loc) },
	}
}

// ListQuery selects a page of inventory and filters it.
type ListQuery struct {
	Page   int
	Limit  int
	Query  string
	Status string
}

// List fetches one page from the catalog and filters it by query and status.
func (s *Service) List(ctx context.Context, q ListQuery) (*models.InventoryPage, error) {
	status, err := stock.ParseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = s.opts.PageSize
	}

	list, err := s.listPage(ctx, q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	filtered := stock.Filter(list.Data, q.Query, status)
	views := make([]models.InventoryView, 0, len(filtered))
	for _, record := range filtered {
		views = append(views, stock.View(record))
	}

	currentPage := list.CurrentPage
	if currentPage == 0 {
		currentPage = q.Page
	}
	return &models.InventoryPage{
		Items:       views,
		CurrentPage: currentPage,
		TotalPages:  max(list.TotalPages, 1),
		Limit:       q.Limit,
	}, nil
}

// Find looks an inventory record up by id.
func (s *Service) Find(ctx context.Context, id string) (models.InventoryRecord, error) {
	records, err := s.FindMany(ctx, []string{id})
	if err != nil {
		return models.InventoryRecord{}, err
	}
	return records[0], nil
}

// FindMany looks several records up, keeping the order of ids.
func (s *Service) FindMany(ctx context.Context, ids []string) ([]models.InventoryRecord, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	list, err := s.listPage(ctx, 1, s.opts.LookupLimit)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.InventoryRecord, len(list.Data))
	for _, record := range list.Data {
		byID[record.ID] = record
	}

	records := make([]models.InventoryRecord, 0, len(ids))
	var missing []string
	for _, id := range ids {
		record, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		records = append(records, record)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, strings.Join(missing, ", "))
	}
	return records, nil
}

// StockPreview shows the effect of a single additive update before it is sent.
type StockPreview struct {
	Record   models.InventoryView `json:"record"`
	Current  int                  `json:"current"`
	Change   int                  `json:"change"`
	NewTotal int                  `json:"newTotal"`
	Status   models.StockStatus   `json:"newStatus"`
}

// UpdateResult is the outcome of a confirmed single update.
type UpdateResult struct {
	StockPreview
	Date    string `json:"date"`
	Message string `json:"message"`
}

// PreviewUpdate computes the new total for adding quantityText to record id.
func (s *Service) PreviewUpdate(ctx context.Context, id, quantityText string) (*StockPreview, error) {
	record, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return preview(record, quantityText), nil
}

func preview(record models.InventoryRecord, quantityText string) *StockPreview {
	change := stock.ParseQuantity(quantityText)
	total := stock.ComputeNewStock(record.Quantity, stock.Add(change), false)
	return &StockPreview{
		Record:   stock.View(record),
		Current:  record.Quantity,
		Change:   change,
		NewTotal: total,
		Status:   stock.Classify(total),
	}
}

// UpdateStock adds quantityText to record id and sends the new total to the catalog.
func (s *Service) UpdateStock(ctx context.Context, id, quantityText, dateText, actor string) (*UpdateResult, error) {
	date, err := s.parseDate(dateText)
	if err != nil {
		return nil, err
	}

	record, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	p := preview(record, quantityText)
	effective := stock.FormatDate(date)

	started := time.Now()
	res, err := s.client.UpdateInventory(ctx, id, models.StockUpdate{Quantity: p.NewTotal, Date: effective})
	s.metrics.ObserveCatalogCall("update inventory", started, err)
	s.metrics.Submission(string(models.AdjustmentSingle), 1, err)
	if err != nil {
		s.logger.Warn("stock update failed", zap.String("inventory_id", id), zap.Error(err))
		return nil, err
	}

	s.record(ctx, []models.AdjustmentEntry{s.entry(record, p.NewTotal, effective, models.AdjustmentSingle, actor)})

	message := res.Message
	if message == "" {
		message = fmt.Sprintf("Successfully added %d %s. New total: %d", p.Change, record.Unit, p.NewTotal)
	}
	s.logger.Info("stock updated",
		zap.String("inventory_id", id),
		zap.Int("previous", record.Quantity),
		zap.Int("quantity", p.NewTotal),
		zap.String("date", effective))

	return &UpdateResult{StockPreview: *p, Date: effective, Message: message}, nil
}

// BulkResult is the outcome of a confirmed bulk update.
type BulkResult struct {
	Lines   []models.BulkStockUpdate `json:"lines"`
	Message string                   `json:"message"`
}

// PreviewBulk builds the submission lines for items without sending them.
func (s *Service) PreviewBulk(items []models.BulkAdjustmentItem, dateText string) ([]models.BulkStockUpdate, error) {
	date, err := s.parseDate(dateText)
	if err != nil {
		return nil, err
	}
	return stock.BuildSubmissionWith(items, date, s.opts.AllowReduction), nil
}

// SubmitBulk sends the reconciled totals of items in one bulk request.
func (s *Service) SubmitBulk(ctx context.Context, items []models.BulkAdjustmentItem, dateText, actor string) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptySelection
	}
	lines, err := s.PreviewBulk(items, dateText)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	res, err := s.client.BulkUpdateInventory(ctx, lines)
	s.metrics.ObserveCatalogCall("bulk update inventory", started, err)
	s.metrics.Submission(string(models.AdjustmentBulk), len(lines), err)
	if err != nil {
		s.logger.Warn("bulk stock update failed", zap.Int("items", len(lines)), zap.Error(err))
		return nil, err
	}

	entries := make([]models.AdjustmentEntry, 0, len(items))
	for i, item := range items {
		entries = append(entries, s.entry(item.InventoryRecord, lines[i].Quantity, lines[i].Date, models.AdjustmentBulk, actor))
	}
	s.record(ctx, entries)

	message := res.Message
	if message == "" {
		message = fmt.Sprintf("Updated stock for %d items", len(lines))
	}
	s.logger.Info("bulk stock updated", zap.Int("items", len(lines)))

	return &BulkResult{Lines: lines, Message: message}, nil
}

// History returns the most recent journal entries of one record.
func (s *Service) History(ctx context.Context, id string, limit int64) ([]models.AdjustmentEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListAdjustments(ctx, id, limit)
}

// ScanAll walks every inventory page.
func (s *Service) ScanAll(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	for page := 1; page <= maxScanPages; page++ {
		list, err := s.listPage(ctx, page, s.opts.LookupLimit)
		if err != nil {
			return nil, err
		}
		records = append(records, list.Data...)
		if page >= list.TotalPages || len(list.Data) == 0 {
			break
		}
	}
	return records, nil
}

func (s *Service) listPage(ctx context.Context, page, limit int) (*catalog.InventoryList, error) {
	started := time.Now()
	list, err := s.client.ListInventory(ctx, page, limit)
	s.metrics.ObserveCatalogCall("list inventory", started, err)
	if err != nil {
		s.logger.Warn("inventory listing failed", zap.Int("page", page), zap.Int("limit", limit), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) parseDate(text string) (time.Time, error) {
	date, err := stock.ParseDate(strings.TrimSpace(text), s.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return date, nil
}

func (s *Service) entry(record models.InventoryRecord, quantity int, date string, kind models.AdjustmentKind, actor string) models.AdjustmentEntry {
	return models.AdjustmentEntry{
		InventoryID: record.ID,
		ProductName: record.ProductName,
		Previous:    record.Quantity,
		Quantity:    quantity,
		Date:        date,
		Kind:        kind,
		Actor:       actor,
		CreatedAt:   s.now().UTC(),
	}
}

// record appends journal entries. Failures are logged only.
func (s *Service) record(ctx context.Context, entries []models.AdjustmentEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.AppendAdjustments(ctx, entries); err != nil {
		s.logger.Error("failed to journal stock adjustments", zap.Int("entries", len(entries)), zap.Error(err))
	}
}
