package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/utils"
)

type saleService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewSaleService creates a new SaleService.
func NewSaleService(txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.SaleSvcFacade {
	svc := &saleService{txManager: txManager}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// CreateSale opens a DRAFT sale and computes its totals.
func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	sale, err := s.buildSale(req, userID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		return tx.Sales().SaveSale(ctx, *sale)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create sale", slog.String("sale_number", sale.SaleNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Sale created",
		slog.String("sale_id", sale.SaleID),
		slog.String("sale_number", sale.SaleNumber),
		slog.String("total", sale.Total.String()))
	return sale, nil
}

func (s *saleService) buildSale(req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	if err := domain.ValidateCurrencyCode(req.CurrencyCode); err != nil {
		return nil, err
	}
	mode, err := domain.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.WarehouseID) == "" {
		return nil, fmt.Errorf("%w: warehouse is required", apperrors.ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: a sale needs at least one item", apperrors.ErrValidation)
	}

	now := s.Now()
	saleID := uuid.NewString()
	saleNumber := strings.TrimSpace(req.SaleNumber)
	if saleNumber == "" {
		if saleNumber, err = utils.NewDocumentNumber("S", now); err != nil {
			return nil, fmt.Errorf("failed to generate sale number: %w", err)
		}
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: item %d has no product", apperrors.ErrValidation, i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d unit price must not be negative", apperrors.ErrValidation, i+1)
		}
		if it.TaxRate.IsNegative() || it.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: item %d tax rate must be between 0 and 1", apperrors.ErrValidation, i+1)
		}
		items = append(items, domain.SaleItem{
			ItemID:    uuid.NewString(),
			SaleID:    saleID,
			LineNo:    i + 1,
			ProductID: it.ProductID,
			Quantity:  domain.RoundRate(it.Quantity),
			UnitPrice: domain.RoundRate(it.UnitPrice),
			TaxRate:   domain.RoundRate(it.TaxRate),
			UnitCost:  decimal.Zero,
		})
	}

	totals, err := domain.CalculateSaleTotals(req.CurrencyCode, items)
	if err != nil {
		return nil, err
	}

	return &domain.Sale{
		SaleID:       saleID,
		SaleNumber:   saleNumber,
		WarehouseID:  req.WarehouseID,
		CurrencyCode: req.CurrencyCode,
		PaymentMode:  mode,
		Status:       domain.SaleDraft,
		Items:        items,
		Subtotal:     totals.Subtotal.Amount,
		TaxTotal:     totals.Tax.Amount,
		Total:        totals.Total.Amount,
		Version:      1,
		AuditFields:  domain.NewAuditFields(userID, now),
	}, nil
}

// GetSaleByID retrieves a sale with its items.
func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	var sale *domain.Sale
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		found, err := tx.Sales().FindSaleByID(ctx, saleID)
		if err != nil {
			return err
		}
		sale = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// DeleteDraftSale removes a DRAFT sale together with its items.
func (s *saleService) DeleteDraftSale(ctx context.Context, saleID string, userID string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		sale, err := tx.Sales().FindSaleByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Status != domain.SaleDraft {
			return fmt.Errorf("%w: sale %s is %s", apperrors.ErrSaleNotDraft, sale.SaleNumber, sale.Status)
		}
		return tx.Sales().DeleteSale(ctx, saleID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete sale", slog.String("sale_id", saleID))
		return err
	}
	s.LogInfo(ctx, "Draft sale deleted", slog.String("sale_id", saleID), slog.String("deleted_by", userID))
	return nil
}
