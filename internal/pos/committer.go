package pos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/retail-pos/internal/apperr"
	"github.com/tuanvumaihuynh/retail-pos/internal/model"
	"github.com/tuanvumaihuynh/retail-pos/pkg/zerror"
)

// DraftLine is one validated line ready to be written.
type DraftLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

type SaleDraft struct {
	ID            uuid.UUID
	EmployeeID    uuid.UUID
	PaymentMethod model.PaymentMethod
	Total         decimal.Decimal
	ItemCount     int
	Lines         []DraftLine
}

type TransferDraft struct {
	ID          uuid.UUID
	EmployeeID  uuid.UUID
	FromStoreID uuid.UUID
	ToStoreID   uuid.UUID
	Lines       []DraftLine
}

// Writer persists a validated draft as one logical operation. Implementations
// return apperr business rejections for refusals raised by the backend.
type Writer interface {
	WriteSale(ctx context.Context, draft SaleDraft) error
	WriteTransfer(ctx context.Context, draft TransferDraft) error
}

// Refresher reloads catalog snapshots after stock changed.
type Refresher interface {
	Reload(ctx context.Context) error
}

type Receipt struct {
	ID      uuid.UUID       `json:"id"`
	Kind    Kind            `json:"kind"`
	Message string          `json:"message"`
	Total   decimal.Decimal `json:"total"`
	Units   int             `json:"units"`
}

type Committer struct {
	writer    Writer
	rates     *Rates
	refresher Refresher
	metrics   *Metrics
	logger    *slog.Logger
}

func NewCommitter(
	writer Writer,
	rates *Rates,
	refresher Refresher,
	metrics *Metrics,
	logger *slog.Logger,
) *Committer {
	return &Committer{
		writer:    writer,
		rates:     rates,
		refresher: refresher,
		metrics:   metrics,
		logger:    logger.With("service", "pos.Committer"),
	}
}

// CommitSale records the cart as a sale. Validation happens before any write. On
// success the cart is cleared; on failure it keeps its exact contents.
func (c *Committer) CommitSale(
	ctx context.Context,
	cart *Cart,
	employeeID uuid.UUID,
	method model.PaymentMethod,
) (Receipt, error) {
	ctx, span := tracer.Start(ctx, "Committer.CommitSale")
	defer span.End()

	if err := validateSale(cart, employeeID, method); err != nil {
		return c.fail(span, KindSale, err)
	}

	rate, err := c.rates.Get(ctx)
	if err != nil {
		return c.fail(span, KindSale, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return c.fail(span, KindSale, fmt.Errorf("generate uuid v7: %w", err))
	}

	draft := SaleDraft{
		ID:            id,
		EmployeeID:    employeeID,
		PaymentMethod: method,
		Total:         cart.Total(rate),
		ItemCount:     cart.Units(),
		Lines:         draftLines(cart, rate),
	}
	span.SetAttributes(
		attribute.String("sale_id", id.String()),
		attribute.Int("line_count", len(draft.Lines)),
	)

	if err := c.writer.WriteSale(ctx, draft); err != nil {
		return c.fail(span, KindSale, err)
	}

	cart.Clear()
	c.metrics.observe(KindSale, outcomeCommitted)
	c.refresh(ctx)

	c.logger.InfoContext(ctx, "sale committed",
		slog.String("sale_id", id.String()),
		slog.String("total", draft.Total.String()),
		slog.Int("units", draft.ItemCount),
	)

	return Receipt{
		ID:      id,
		Kind:    KindSale,
		Message: fmt.Sprintf("sale registered, total %s", draft.Total.StringFixed(0)),
		Total:   draft.Total,
		Units:   draft.ItemCount,
	}, nil
}

// CommitTransfer records the cart as a transfer between two distinct stores.
func (c *Committer) CommitTransfer(
	ctx context.Context,
	cart *Cart,
	employeeID uuid.UUID,
	fromStoreID uuid.UUID,
	toStoreID uuid.UUID,
) (Receipt, error) {
	ctx, span := tracer.Start(ctx, "Committer.CommitTransfer")
	defer span.End()

	if err := validateTransfer(cart, employeeID, fromStoreID, toStoreID); err != nil {
		return c.fail(span, KindTransfer, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return c.fail(span, KindTransfer, fmt.Errorf("generate uuid v7: %w", err))
	}

	draft := TransferDraft{
		ID:          id,
		EmployeeID:  employeeID,
		FromStoreID: fromStoreID,
		ToStoreID:   toStoreID,
		Lines:       draftLines(cart, decimal.Zero),
	}
	span.SetAttributes(
		attribute.String("transfer_id", id.String()),
		attribute.Int("line_count", len(draft.Lines)),
	)

	if err := c.writer.WriteTransfer(ctx, draft); err != nil {
		return c.fail(span, KindTransfer, err)
	}

	units := cart.Units()
	cart.Clear()
	c.metrics.observe(KindTransfer, outcomeCommitted)
	c.refresh(ctx)

	c.logger.InfoContext(ctx, "transfer committed",
		slog.String("transfer_id", id.String()),
		slog.String("from_store_id", fromStoreID.String()),
		slog.String("to_store_id", toStoreID.String()),
		slog.Int("units", units),
	)

	return Receipt{
		ID:      id,
		Kind:    KindTransfer,
		Message: fmt.Sprintf("transfer registered, %d product(s) moved", units),
		Total:   decimal.Zero,
		Units:   units,
	}, nil
}

func validateSale(cart *Cart, employeeID uuid.UUID, method model.PaymentMethod) error {
	if cart == nil || cart.IsEmpty() {
		return apperr.ErrCartEmpty
	}
	if cart.Kind() != KindSale {
		return apperr.ErrCartKindMismatch
	}
	if employeeID == uuid.Nil {
		return apperr.ErrEmployeeRequired
	}
	if err := method.Validate(); err != nil {
		return apperr.ErrInvalidPaymentMethod
	}
	return nil
}

func validateTransfer(cart *Cart, employeeID, fromStoreID, toStoreID uuid.UUID) error {
	if cart == nil || cart.IsEmpty() {
		return apperr.ErrCartEmpty
	}
	if cart.Kind() != KindTransfer {
		return apperr.ErrCartKindMismatch
	}
	if employeeID == uuid.Nil {
		return apperr.ErrEmployeeRequired
	}
	if fromStoreID == uuid.Nil || toStoreID == uuid.Nil {
		return apperr.ErrStoreRequired
	}
	if fromStoreID == toStoreID {
		return apperr.ErrSameStoreTransfer
	}
	return nil
}

// draftLines snapshots the cart lines. Unit prices keep full precision; only the
// total is rounded.
func draftLines(cart *Cart, rate decimal.Decimal) []DraftLine {
	items := cart.Items()
	lines := make([]DraftLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, DraftLine{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(rate),
		})
	}
	return lines
}

func (c *Committer) refresh(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	if err := c.refresher.Reload(ctx); err != nil {
		c.logger.WarnContext(ctx, "reload catalogs after commit", slog.Any("error", err))
	}
}

// fail classifies err, records it and returns it in its apperr form.
func (c *Committer) fail(span trace.Span, kind Kind, err error) (Receipt, error) {
	if _, ok := zerror.As(err); !ok {
		err = apperr.ErrDataAccess.WrapParent(err)
	}

	outcome := outcomeOf(err)
	c.metrics.observe(kind, outcome)

	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)

	return Receipt{}, err
}

func outcomeOf(err error) string {
	zErr, ok := zerror.As(err)
	if !ok {
		return outcomeFailed
	}

	switch {
	case errors.Is(err, apperr.ErrPartialCommit):
		return outcomePartial
	case errors.Is(err, apperr.ErrInsufficientStock), errors.Is(err, apperr.ErrBusinessRejection):
		return outcomeRejected
	case zErr.Status() == zerror.StatusValidationFailed:
		return outcomeInvalid
	default:
		return outcomeFailed
	}
}
