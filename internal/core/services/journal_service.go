package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
	"github.com/finbooks/bookkeeping_app/internal/utils/accounting"
)

var (
	// ErrJournalNotBalanced blocks posting an entry whose debits and credits differ.
	ErrJournalNotBalanced = errors.New("journal entry does not balance")
	// ErrInvalidCreateStatus rejects statuses other than DRAFT or POSTED at creation.
	ErrInvalidCreateStatus = errors.New("journal entry can only be created as DRAFT or POSTED")
	// ErrPlaceholderLines blocks posting an entry that still carries a line
	// with neither a debit nor a credit. Such lines are only allowed on drafts.
	ErrPlaceholderLines = errors.New("journal entry has placeholder lines")
)

const defaultQueryLimit = 50

// journalService provides the ledger store operations: the journal entry
// lifecycle (draft/posted/void plus soft delete) and ledger queries.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditNotifier
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, audit portssvc.AuditNotifier) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		audit:       audit,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournal creates a journal entry. Drafts may be unbalanced; creating
// directly as POSTED requires the validator to report IsValid.
func (s *journalService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	status := req.Status
	if status == "" {
		status = domain.Draft
	}
	if status != domain.Draft && status != domain.Posted {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidCreateStatus, req.Status)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	lines := dto.ToDomainLines(req.Lines)
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].JournalID = journalID
	}
	if err := checkLineAmounts(lines); err != nil {
		return nil, err
	}

	result, err := s.ValidateJournal(ctx, companyID, lines)
	if err != nil {
		return nil, err
	}
	if status == domain.Posted {
		if !result.IsValid {
			return nil, fmt.Errorf("%w: %w: %s", ErrJournalNotBalanced, apperrors.ErrValidation, strings.Join(result.Errors, "; "))
		}
		if err := checkNoPlaceholderLines(lines); err != nil {
			return nil, err
		}
	}
	if status == domain.Draft {
		// Drafts tolerate imbalance and placeholder lines, but still must
		// reference accounts that exist in this company's chart.
		if err := s.checkAccountsExist(ctx, companyID, lines); err != nil {
			return nil, err
		}
	}

	entry := domain.JournalEntry{
		JournalID:   journalID,
		CompanyID:   companyID,
		JournalDate: req.Date,
		Memo:        req.Memo,
		Reference:   req.Reference,
		Status:      status,
		Lines:       lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, entry); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "journal_entry", journalID, nil, entry)
	}

	logger.Info("Journal entry created", slog.String("journal_id", journalID), slog.String("status", string(status)))
	return &entry, nil
}

// GetJournalByID retrieves a journal entry with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		// Obscure existence across companies.
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

// QueryJournals lists entries matching the filter, ordered by journal date
// ascending then creation time then journal ID. The ordering is pinned:
// reconciliation and report consumers depend on it.
func (s *journalService) QueryJournals(ctx context.Context, companyID string, params dto.QueryJournalsParams) (*dto.QueryJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	filter := portsrepo.JournalFilter{
		CompanyID:      companyID,
		Status:         params.Status,
		FromDate:       params.FromDate,
		ToDate:         params.ToDate,
		AccountID:      params.AccountID,
		IncludeDeleted: params.IncludeDeleted,
	}

	entries, nextToken, err := s.journalRepo.QueryJournals(ctx, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to query journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}

	responses := make([]dto.JournalResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalResponse(&entries[i])
	}

	return &dto.QueryJournalsResponse{Journals: responses, NextToken: nextToken}, nil
}

// UpdateJournal edits a DRAFT entry's header and lines. Posted and voided
// entries are immutable.
func (s *journalService) UpdateJournal(ctx context.Context, companyID string, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if entry.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot edit a %s entry", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	before := *entry

	if req.Date != nil {
		entry.JournalDate = *req.Date
	}
	if req.Memo != nil {
		entry.Memo = *req.Memo
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
	}
	if req.Lines != nil {
		lines := dto.ToDomainLines(*req.Lines)
		for i := range lines {
			lines[i].LineID = uuid.NewString()
			lines[i].JournalID = journalID
		}
		if err := checkLineAmounts(lines); err != nil {
			return nil, err
		}
		if err := s.checkAccountsExist(ctx, companyID, lines); err != nil {
			return nil, err
		}
		entry.Lines = lines
	}

	now := time.Now().UTC()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.UpdateJournal(ctx, *entry); err != nil {
		logger.Error("Failed to update journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update journal entry: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "journal_entry", journalID, before, *entry)
	}

	return entry, nil
}

// ValidateJournal runs the validator over candidate lines without persisting
// anything. Validation findings come back as data, never as an error return.
func (s *journalService) ValidateJournal(ctx context.Context, companyID string, lines []domain.JournalLine) (*accounting.ValidationResult, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for validation: %w", err)
	}
	result := accounting.ValidateLines(lines, accounts)
	return &result, nil
}

// PostJournal transitions DRAFT -> POSTED. The balance invariant is
// re-validated at transition time: an entry balanced at creation could have
// been altered by a buggy caller in the meantime.
func (s *journalService) PostJournal(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if entry.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot post a %s entry", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	result, err := s.ValidateJournal(ctx, companyID, entry.Lines)
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		return nil, fmt.Errorf("%w: %w: %s", ErrJournalNotBalanced, apperrors.ErrValidation, strings.Join(result.Errors, "; "))
	}
	if err := checkNoPlaceholderLines(entry.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Draft, domain.Posted, "", userID, now); err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	before := *entry
	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "journal_entry", journalID, before, *entry)
	}

	logger.Info("Journal entry posted", slog.String("journal_id", journalID))
	return entry, nil
}

// VoidJournal transitions POSTED -> VOID. Void is terminal: the lines are
// retained for audit but excluded from balance and report queries.
func (s *journalService) VoidJournal(ctx context.Context, companyID string, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalByID(ctx, companyID, journalID)
	if err != nil {
		return nil, err
	}
	if entry.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: cannot void a %s entry", apperrors.ErrInvalidStateTransition, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Posted, domain.Void, reason, userID, now); err != nil {
		logger.Error("Failed to void journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	before := *entry
	entry.Status = domain.Void
	entry.VoidReason = reason
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "journal_entry", journalID, before, *entry)
	}

	logger.Info("Journal entry voided", slog.String("journal_id", journalID))
	return entry, nil
}

// DeleteJournal soft-deletes a DRAFT entry. Posted entries must be voided
// instead so the audit trail survives.
func (s *journalService) DeleteJournal(ctx context.Context, companyID string, journalID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetJournalByID(ctx, companyID, journalID)
	if err != nil {
		return err
	}
	if entry.IsDeleted() {
		return apperrors.ErrNotFound
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: only draft entries can be deleted, void posted entries instead", apperrors.ErrInvalidStateTransition)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SoftDeleteJournal(ctx, journalID, userID, now); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "journal_entry", journalID, *entry, nil)
	}

	logger.Info("Journal entry deleted", slog.String("journal_id", journalID))
	return nil
}

// checkLineAmounts rejects negative debit or credit amounts regardless of
// entry status. A negative amount is a structural error, not an imbalance a
// draft may carry.
func checkLineAmounts(lines []domain.JournalLine) error {
	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d: debit and credit amounts must not be negative", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// checkNoPlaceholderLines rejects lines carrying neither a debit nor a
// credit. Drafts may hold such lines while being filled in; a posted entry
// must not.
func checkNoPlaceholderLines(lines []domain.JournalLine) error {
	for i, line := range lines {
		if line.IsPlaceholder() {
			return fmt.Errorf("%w: %w: line %d has neither a debit nor a credit", ErrPlaceholderLines, apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// checkAccountsExist verifies every referenced account exists in the
// company's chart. Drafts skip balance validation but still cannot reference
// foreign or nonexistent accounts.
func (s *journalService) checkAccountsExist(ctx context.Context, companyID string, lines []domain.JournalLine) error {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	unique := uniqueStrings(accountIDs)
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, unique)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range unique {
		if _, found := accounts[id]; !found {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
