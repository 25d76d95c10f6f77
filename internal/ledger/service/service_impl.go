package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roomledger/roomledger/internal/ledger/domain"
)

// amountScale is the number of decimal places kept on posted amounts.
const amountScale = 4

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) PostBillCalculation(ctx context.Context, tx *gorm.DB, input domain.PostBillCalculationInput) (*domain.Entry, error) {
	if input.BillID == 0 {
		return nil, domain.ErrInvalidSource
	}

	accounts, err := s.accountsByCode(ctx, tx)
	if err != nil {
		return nil, err
	}

	// A recalculation replaces the previous posting for the bill.
	if err := s.repo.DeleteEntriesBySource(ctx, tx, domain.SourceTypeBillCalculation, input.BillID); err != nil {
		return nil, err
	}

	entry := &domain.Entry{
		ID:         s.genID.Generate(),
		SourceType: domain.SourceTypeBillCalculation,
		SourceID:   input.BillID,
		OccurredAt: input.OccurredAt,
		CreatedAt:  input.OccurredAt,
	}

	lines, err := s.buildLines(entry, input, accounts)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckBalanced(lines); err != nil {
		return nil, err
	}

	if err := s.repo.InsertEntry(ctx, tx, entry, lines); err != nil {
		return nil, err
	}
	s.log.Info("bill calculation posted",
		zap.String("bill_id", input.BillID.String()),
		zap.String("mode", input.Mode),
		zap.Int("lines", len(lines)),
	)
	return entry, nil
}

// buildLines derives the credit side from the posted debits so that rounding
// of individual tenant shares can never unbalance the entry.
func (s *Service) buildLines(entry *domain.Entry, input domain.PostBillCalculationInput, accounts map[string]*domain.Account) ([]domain.EntryLine, error) {
	receivable, ok := accounts[domain.AccountCodeTenantReceivable]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}
	absorbed, ok := accounts[domain.AccountCodeOwnerAbsorbed]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}
	surplus, ok := accounts[domain.AccountCodeOwnerSurplus]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}
	expense, ok := accounts[domain.AccountCodeUtilityExpense]
	if !ok {
		return nil, domain.ErrUnknownAccount
	}

	var lines []domain.EntryLine
	debitTotal := decimal.Zero

	addLine := func(account *domain.Account, direction domain.EntryDirection, amount decimal.Decimal, memo string) {
		lines = append(lines, domain.EntryLine{
			ID:        s.genID.Generate(),
			EntryID:   entry.ID,
			AccountID: account.ID,
			Direction: direction,
			Amount:    amount,
			Memo:      memo,
			CreatedAt: entry.OccurredAt,
		})
	}

	for _, charge := range input.Charges {
		amount := decimal.NewFromFloat(charge.Amount).Round(amountScale)
		if amount.Sign() <= 0 {
			continue
		}
		addLine(receivable, domain.EntryDirectionDebit, amount, charge.TenantName)
		debitTotal = debitTotal.Add(amount)
	}

	ownerShare := decimal.NewFromFloat(input.OwnerShare).Round(amountScale)
	switch input.Mode {
	case "shared":
		// Vacancy cost lands on the owner; the whole invoice is credited
		// against the utility expense account.
		if ownerShare.Sign() > 0 {
			addLine(absorbed, domain.EntryDirectionDebit, ownerShare, "vacancy")
			debitTotal = debitTotal.Add(ownerShare)
		}
		addLine(expense, domain.EntryDirectionCredit, debitTotal, "")
	case "fixed":
		// Debits are the theoretical fixed-fee collection; the invoice is
		// the expense and the signed balance goes to the owner.
		if ownerShare.Sign() < 0 {
			shortfall := ownerShare.Neg()
			addLine(absorbed, domain.EntryDirectionDebit, shortfall, "shortfall")
			addLine(expense, domain.EntryDirectionCredit, debitTotal.Add(shortfall), "")
		} else {
			if ownerShare.Sign() > 0 {
				addLine(surplus, domain.EntryDirectionCredit, ownerShare, "surplus")
			}
			addLine(expense, domain.EntryDirectionCredit, debitTotal.Sub(ownerShare), "")
		}
	default:
		return nil, domain.ErrInvalidSource
	}

	return lines, nil
}

func (s *Service) accountsByCode(ctx context.Context, db *gorm.DB) (map[string]*domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx, db)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return byCode, nil
}

func (s *Service) ListAccounts(ctx context.Context) ([]domain.AccountResponse, error) {
	accounts, err := s.repo.ListAccounts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		debits, credits, err := s.repo.AccountBalance(ctx, s.db, a.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, domain.AccountResponse{
			ID:      a.ID.String(),
			Code:    a.Code,
			Name:    a.Name,
			Balance: debits.Sub(credits),
		})
	}
	return resp, nil
}

func (s *Service) ListEntries(ctx context.Context, req domain.ListEntriesRequest) ([]domain.EntryResponse, error) {
	var sourceID snowflake.ID
	if raw := strings.TrimSpace(req.SourceID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidSource
		}
		sourceID = parsed
	}

	entries, err := s.repo.ListEntries(ctx, s.db, strings.TrimSpace(req.SourceType), sourceID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListAccounts(ctx, s.db)
	if err != nil {
		return nil, err
	}
	codeByID := make(map[snowflake.ID]string, len(accounts))
	for _, a := range accounts {
		codeByID[a.ID] = a.Code
	}

	resp := make([]domain.EntryResponse, 0, len(entries))
	for _, entry := range entries {
		lines, err := s.repo.ListLines(ctx, s.db, entry.ID)
		if err != nil {
			return nil, err
		}
		lineResp := make([]domain.EntryLineResponse, 0, len(lines))
		for _, line := range lines {
			lineResp = append(lineResp, domain.EntryLineResponse{
				AccountCode: codeByID[line.AccountID],
				Direction:   line.Direction,
				Amount:      line.Amount,
				Memo:        line.Memo,
			})
		}
		resp = append(resp, domain.EntryResponse{
			ID:         entry.ID.String(),
			SourceType: entry.SourceType,
			SourceID:   entry.SourceID.String(),
			OccurredAt: entry.OccurredAt,
			Lines:      lineResp,
		})
	}
	return resp, nil
}

// DefaultAccounts is the chart of accounts seeded at install time.
func DefaultAccounts() []domain.Account {
	now := time.Now().UTC()
	return []domain.Account{
		{Code: domain.AccountCodeTenantReceivable, Name: "Tenant receivable", CreatedAt: now},
		{Code: domain.AccountCodeOwnerAbsorbed, Name: "Owner absorbed cost", CreatedAt: now},
		{Code: domain.AccountCodeOwnerSurplus, Name: "Owner collection surplus", CreatedAt: now},
		{Code: domain.AccountCodeUtilityExpense, Name: "Utility expense", CreatedAt: now},
	}
}
