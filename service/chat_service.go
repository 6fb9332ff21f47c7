package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
)

// ChatService is the conversational entry point: it classifies a message,
// prices detected expenses against the user's debt and lets the coach answer.
type ChatService struct {
	classifier *Classifier
	coach      *CoachService
	finance    *FinanceService
	log        *logrus.Logger
	now        func() time.Time
}

func NewChatService(
	classifier *Classifier,
	coach *CoachService,
	finance *FinanceService,
	logger *logrus.Logger,
) *ChatService {
	return &ChatService{
		classifier: classifier,
		coach:      coach,
		finance:    finance,
		log:        logger,
		now:        time.Now,
	}
}

func validateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return message, nil
}

func (s *ChatService) Send(ctx context.Context, message string, fc domain.FinancialContext) (domain.ChatReply, error) {
	message, err := validateMessage(message)
	if err != nil {
		return domain.ChatReply{}, err
	}

	cl := s.classifier.Classify(ctx, message)

	var (
		detected *domain.Classification
		impact   *domain.ImpactReport
	)
	if cl.Kind != domain.TransactionConversation && cl.Amount != nil {
		detected = &cl
		if cl.Kind == domain.TransactionExpense && hasActiveDebt(fc) {
			impact, err = s.finance.Impact(ctx, domain.ImpactInput{
				CurrentDebt:    fc.TotalDebt,
				MonthlyPayment: fc.MonthlyPayment,
				NewExpense:     *cl.Amount,
			})
			if err != nil {
				s.log.WithError(err).WithField("amount", cl.Amount.String()).Warn("could not price chat expense")
				impact = nil
			}
		}
	}

	reply, provider := s.coach.Reply(ctx, message, fc, impact)
	return domain.ChatReply{
		Reply:        reply,
		DetectedKind: cl.Kind,
		Transaction:  detected,
		Impact:       impact,
		Timestamp:    s.now(),
		Provider:     provider,
	}, nil
}

// hasActiveDebt reports whether an expense can be priced against fc.
func hasActiveDebt(fc domain.FinancialContext) bool {
	return fc.TotalDebt.IsPositive() && fc.MonthlyPayment.IsPositive()
}

func (s *ChatService) Classify(ctx context.Context, message string) (domain.Classification, error) {
	message, err := validateMessage(message)
	if err != nil {
		return domain.Classification{}, err
	}
	return s.classifier.Classify(ctx, message), nil
}

func (s *ChatService) Status(ctx context.Context) domain.ChatStatus {
	return domain.ChatStatus{
		Status:    "online",
		Provider:  s.coach.Provider(ctx),
		Available: true,
	}
}

// ToTransaction turns a detected classification into a transaction for
// userID, or reports false when there is nothing to store.
func (s *ChatService) ToTransaction(userID string, cl *domain.Classification, source domain.TransactionSource) (domain.Transaction, bool) {
	if userID == "" || cl == nil || cl.Amount == nil || cl.Kind == domain.TransactionConversation {
		return domain.Transaction{}, false
	}
	return domain.Transaction{
		UserID:      userID,
		Kind:        cl.Kind,
		Amount:      *cl.Amount,
		Category:    cl.Category,
		Description: cl.Description,
		Date:        s.now(),
		Source:      source,
	}, true
}
