package textual

import (
	"io"
	"strings"

	"github.com/juev/ledger-textual/internal/account"
	"github.com/juev/ledger-textual/internal/amount"
	"github.com/juev/ledger-textual/internal/journal"
	"github.com/juev/ledger-textual/internal/valexpr"
)

// postingEnv exposes the posting under construction to value expressions:
// "a" is its amount so far and "t" the running total of its entry.
type postingEnv struct {
	post  *journal.Posting
	entry *journal.Entry
}

func (env postingEnv) Lookup(name string) (valexpr.Value, bool) {
	switch name {
	case "a":
		if env.post.Amount == nil {
			return valexpr.IntValue(0), true
		}
		return valexpr.AmountValue(*env.post.Amount), true
	case "t":
		var total valexpr.Balance
		if env.entry != nil {
			for _, p := range env.entry.Postings {
				if p.Amount != nil {
					total = total.Add(*p.Amount)
				}
			}
		}
		switch len(total) {
		case 0:
			return valexpr.IntValue(0), true
		case 1:
			return valexpr.AmountValue(total[0]), true
		}
		return valexpr.BalanceValue(total), true
	}
	return valexpr.Value{}, false
}

// parseAmount parses a literal amount, or evaluates a parenthesized value
// expression whose result must be a single amount.
func parseAmount(ctx *Context, text string, flags amount.ParseFlags, env valexpr.Env) (amount.Amount, error) {
	if !strings.HasPrefix(text, "(") {
		return ctx.journal.Commodities.Parse(text, flags)
	}
	v, err := valexpr.Evaluate(text, env, ctx.journal.Commodities)
	if err != nil {
		return amount.Amount{}, err
	}
	a, ok := v.ToAmount()
	if !ok {
		return amount.Amount{}, ctx.errorf(ErrorBalanceExpression, "value expression yields a balance")
	}
	return a, nil
}

// parsePosting reads one indented posting line. The account name ends at
// the first tab or double space; what follows is "AMOUNT [@ PRICE] [; NOTE]".
func parsePosting(ctx *Context, line string, root *account.Account, entry *journal.Entry) (*journal.Posting, error) {
	post := &journal.Posting{}
	name, rest, _ := splitToken(skipWS(line), true)

	if rest != "" {
		hasAmount := true
		if i := strings.IndexByte(rest, ';'); i >= 0 {
			hasAmount = i > 0
			post.Note = strings.TrimSpace(rest[i+1:])
			rest = rest[:i]
		}
		if hasAmount {
			if err := parseAmountField(ctx, post, entry, rest); err != nil {
				return nil, err
			}
		}
	}

	name = strings.TrimRight(name, " \t")
	switch {
	case len(name) >= 2 && name[0] == '[' && name[len(name)-1] == ']':
		post.Flags |= journal.FlagVirtual | journal.FlagBalance
		name = name[1 : len(name)-1]
	case len(name) >= 2 && name[0] == '(' && name[len(name)-1] == ')':
		post.Flags |= journal.FlagVirtual
		name = name[1 : len(name)-1]
	}
	post.Account = root.FindOrCreate(name)
	return post, nil
}

func parseAmountField(ctx *Context, post *journal.Posting, entry *journal.Entry, text string) error {
	env := postingEnv{post: post, entry: entry}

	amountText, priceText, hasPrice := strings.Cut(text, "@")
	perUnit := true
	if hasPrice {
		if strings.TrimSpace(amountText) == "" {
			return ctx.errorf(ErrorCostWithoutAmount, "cost specified without amount")
		}
		if strings.HasPrefix(priceText, "@") {
			perUnit = false
			priceText = priceText[1:]
		}
	}

	amt, err := parseAmount(ctx, strings.TrimSpace(amountText), amount.NoReduce, env)
	if err != nil {
		return err
	}
	post.Amount = &amt

	if hasPrice {
		cost, err := parseAmount(ctx, strings.TrimSpace(priceText), amount.NoMigrate, env)
		if err != nil {
			return err
		}
		if perUnit {
			cost = cost.Mul(amt).Abs().RoundToCommodity()
		}
		post.Cost = &cost
	}

	reduced := amt.Reduce()
	post.Amount = &reduced
	return nil
}

// parsePostings reads the indented body following a header. A blank
// indented line ends the body and is consumed with it.
func parsePostings(ctx *Context, entry *journal.Entry) (bool, error) {
	added := false
	for ctx.reader.Indented() {
		line, err := ctx.reader.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, err
		}
		ctx.Line++

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		if trimmed[0] == ';' {
			continue
		}

		post, err := parsePosting(ctx, line, ctx.Account(), entry)
		if err != nil {
			perr := ctx.located(err, ErrorEntryParseFailure)
			skipBody(ctx)
			return added, perr
		}
		entry.AddPosting(post)
		added = true
	}
	return added, nil
}

// skipBody consumes the rest of an indented body after a failure so that
// its lines are not reported one by one.
func skipBody(ctx *Context) {
	for ctx.reader.Indented() {
		line, err := ctx.reader.ReadLine()
		if err != nil {
			return
		}
		ctx.Line++
		if strings.TrimSpace(line) == "" {
			return
		}
	}
}
