package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/sirupsen/logrus"

	"finance-coach/domain"
	"finance-coach/engine"
)

const coachSystemPrompt = `You are a personal finance coach. You are young, direct and friendly, never a boring bank robot, and you genuinely care about the user's financial health.

Rules:
1. Always check whether the user is in debt or has a positive balance before answering, and adapt your tone.
2. In debt: if the user spends on something non-essential, give a friendly scolding and show the opportunity cost in extra days of debt.
3. Positive balance: celebrate, but encourage consistency and saving part of it.
4. Never lecture. One or two sentences of advice at most, tied to what the user just did.
5. Mirror the user's register: casual with casual users, a bit more formal with formal ones.
6. Show empathy. Managing money is hard; help, don't judge.

Keep every answer to 2-3 short sentences, use at most 1-2 emojis, and mention the real impact of the expense or income whenever you know it.`

var (
	inDebtReplies = []string{
		"Hold on! 🔴 While there's debt, every expense counts. Let's focus on paying it off?",
		"Wait a second! With debt running, this expense sets you back. Was it really worth it?",
		"I know it's hard, but we're in the red. How about holding back a little?",
		"🔴 A little here, a little there... and the debt keeps growing. Time to tighten the belt?",
	}
	positiveReplies = []string{
		"Nice! 🟢 There's money left over, just remember to save part of it!",
		"Great! Go ahead and spend, just don't go crazy. Consistency is the secret! 💪",
		"That's it! You're in the green. Enjoy it, but mindfully!",
		"🟢 Well done! Keep this up and financial freedom is coming!",
	}
	neutralReplies = []string{
		"Got it, logged! Let's keep things under control? 📊",
		"Noted! I'm here if you need anything.",
		"All good! Remember every cent counts!",
		"Done! Let's keep an eye on this money together.",
	}
)

type CoachService struct {
	generator Generator
	provider  string
	log       *logrus.Logger
}

// NewCoachService builds the coach on top of generator, reported to clients
// as provider. generator may be nil, in which case only canned replies are used.
func NewCoachService(generator Generator, provider string, logger *logrus.Logger) *CoachService {
	return &CoachService{generator: generator, provider: provider, log: logger}
}

func (s *CoachService) available(ctx context.Context) bool {
	return s.generator != nil && s.generator.IsAvailable(ctx)
}

// Provider names the backend that will answer the next message.
func (s *CoachService) Provider(ctx context.Context) string {
	if s.available(ctx) {
		return s.provider
	}
	return ProviderFallback
}

// Reply answers message in the coach's voice. It never fails: when the
// generator is missing or errors it falls back to a canned reply chosen
// from the user's situation. The second result names who answered.
func (s *CoachService) Reply(
	ctx context.Context,
	message string,
	fc domain.FinancialContext,
	impact *domain.ImpactReport,
) (string, string) {
	if s.available(ctx) {
		reply, err := s.generator.Generate(ctx, coachSystemPrompt, buildCoachPrompt(message, fc, impact))
		if err == nil && reply != "" {
			return reply, s.provider
		}
		s.log.WithError(err).WithField("provider", s.provider).Warn("coach generation failed, using fallback")
	}
	return fallbackReply(message, fc), ProviderFallback
}

func inTheRed(fc domain.FinancialContext) bool {
	return fc.CurrentBalance.IsNegative() || fc.TotalDebt.IsPositive()
}

func buildCoachPrompt(message string, fc domain.FinancialContext, impact *domain.ImpactReport) string {
	status := "in the green 🟢"
	if inTheRed(fc) {
		status = "in the red 🔴"
	}

	var b strings.Builder
	b.WriteString("USER'S CURRENT FINANCIAL CONTEXT:\n")
	fmt.Fprintf(&b, "- Current balance: %s\n", engine.FormatMoney(fc.CurrentBalance))
	fmt.Fprintf(&b, "- Total debt: %s\n", engine.FormatMoney(fc.TotalDebt))
	fmt.Fprintf(&b, "- Status: %s\n", status)
	if impact != nil {
		b.WriteString("\nIMPACT OF THE LAST EXPENSE:\n")
		fmt.Fprintf(&b, "- Additional days of debt: %d\n", impact.AdditionalDays)
		fmt.Fprintf(&b, "- Real cost with interest: %s\n", engine.FormatMoney(impact.RealCost))
	}
	b.WriteString("\nUSER MESSAGE:\n")
	b.WriteString(message)
	b.WriteString("\n\nAnswer following your rules. Be BRIEF and DIRECT.")
	return b.String()
}

// fallbackReply picks a canned reply. The choice depends only on the
// message and context, so the same input always gets the same answer.
func fallbackReply(message string, fc domain.FinancialContext) string {
	replies := neutralReplies
	switch {
	case inTheRed(fc):
		replies = inDebtReplies
	case fc.CurrentBalance.IsPositive():
		replies = positiveReplies
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(message))
	return replies[int(h.Sum32()%uint32(len(replies)))]
}
