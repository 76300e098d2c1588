// Package classifier assigns one platform label to a segment from its text and filename.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"docroute/internal/domain"
	"docroute/internal/rules"
	"docroute/internal/textnorm"
)

// Classifier scores text against the compiled rule tables. It holds only immutable state
// and is safe for concurrent use.
type Classifier struct {
	maxLen, headLen, tailLen int
	fallbackMin              int
	taxID                    *regexp.Regexp
	clientTaxIDs             map[string]bool
	invoicePhrases           []string
	fastPaths                []fastPath
	platforms                []scoring
	penalty                  rules.Penalty
}

type fastPath struct {
	name     string
	platform domain.Platform
	patterns []*regexp.Regexp
	literals []string
}

type scoring struct {
	platform      domain.Platform
	threshold     int
	filenameBonus int
	filenameHints []string
	signals       []signal
	strongBonus   int
	strong        []string
	weakBonus     int
	weak          []string
	vendorTaxID   int
	context       []rules.ContextBonus
}

type signal struct {
	re       *regexp.Regexp
	literal  string
	bonus    int
	textOnly bool
}

func (s signal) hit(text, filename string) bool {
	match := func(v string) bool {
		if s.re != nil {
			return s.re.MatchString(v)
		}
		return s.literal != "" && strings.Contains(v, s.literal)
	}
	if match(text) {
		return true
	}
	return !s.textOnly && filename != "" && match(filename)
}

// New compiles the classifier section of rs. Tax ids in clientTaxIDs never count as a
// vendor tax id.
func New(rs *rules.RuleSet, clientTaxIDs []string) (*Classifier, error) {
	cr := rs.Classifier
	taxID, err := regexp.Compile(cr.TaxIDPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling tax id pattern: %w", err)
	}

	c := &Classifier{
		maxLen:         cr.MaxTextLen,
		headLen:        cr.HeadLen,
		tailLen:        cr.TailLen,
		fallbackMin:    cr.FallbackMinScore,
		taxID:          taxID,
		clientTaxIDs:   make(map[string]bool, len(clientTaxIDs)),
		invoicePhrases: lowerAll(cr.InvoicePhrases),
		penalty:        cr.Penalty,
	}
	for _, id := range clientTaxIDs {
		if id = strings.TrimSpace(id); id != "" {
			c.clientTaxIDs[id] = true
		}
	}

	for _, fp := range cr.FastPaths {
		compiled := fastPath{
			name:     fp.Name,
			platform: domain.Platform(fp.Platform),
			literals: lowerAll(fp.Literals),
		}
		for _, expr := range fp.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compiling fast path %s: %w", fp.Name, err)
			}
			compiled.patterns = append(compiled.patterns, re)
		}
		c.fastPaths = append(c.fastPaths, compiled)
	}

	for _, ps := range cr.Platforms {
		s := scoring{
			platform:      domain.Platform(ps.Platform),
			threshold:     ps.Threshold,
			filenameBonus: ps.FilenameBonus,
			filenameHints: lowerAll(ps.FilenameHints),
			strongBonus:   ps.StrongBonus,
			strong:        lowerAll(ps.StrongPhrases),
			weakBonus:     ps.WeakBonus,
			weak:          lowerAll(ps.WeakPhrases),
			vendorTaxID:   ps.VendorTaxIDBonus,
		}
		for _, cb := range ps.Context {
			s.context = append(s.context, rules.ContextBonus{
				Literal:     strings.ToLower(cb.Literal),
				TextAny:     lowerAll(cb.TextAny),
				FilenameAny: lowerAll(cb.FilenameAny),
				Bonus:       cb.Bonus,
			})
		}
		for _, ws := range ps.Signals {
			sig := signal{literal: strings.ToLower(ws.Literal), bonus: ws.Bonus, textOnly: ws.TextOnly}
			if ws.Pattern != "" {
				if sig.re, err = regexp.Compile(ws.Pattern); err != nil {
					return nil, fmt.Errorf("compiling %s signal: %w", ps.Platform, err)
				}
			}
			s.signals = append(s.signals, sig)
		}
		c.platforms = append(c.platforms, s)
	}
	return c, nil
}

// Classify labels one segment. It never fails: an internal fault yields UNKNOWN with an
// all-zero score map and Degraded set.
func (c *Classifier) Classify(text, filename string) (res domain.ClassificationResult) {
	defer func() {
		if r := recover(); r != nil {
			res = domain.ClassificationResult{
				Label:    domain.PlatformUnknown,
				Scores:   zeroScores(),
				Degraded: true,
			}
		}
	}()

	t := c.prepare(text)
	fn := c.prepare(filename)
	if t == "" && fn == "" {
		return domain.ClassificationResult{Label: domain.PlatformUnknown, Scores: zeroScores()}
	}

	if fp, ok := c.fastPath(t, fn); ok {
		return domain.ClassificationResult{
			Label:    fp.platform,
			Scores:   map[domain.Platform]int{},
			FastPath: fp.name,
		}
	}

	scores := c.Score(t, fn)
	return domain.ClassificationResult{Label: c.decide(t, scores), Scores: scores}
}

// prepare normalises, lowercases and caps s.
func (c *Classifier) prepare(s string) string {
	if s == "" {
		return ""
	}
	return textnorm.Cap(strings.ToLower(textnorm.Normalize(s)), c.maxLen, c.headLen, c.tailLen)
}

func (c *Classifier) fastPath(t, fn string) (*fastPath, bool) {
	for i := range c.fastPaths {
		fp := &c.fastPaths[i]
		for _, re := range fp.patterns {
			if re.MatchString(t) || (fn != "" && re.MatchString(fn)) {
				return fp, true
			}
		}
		for _, lit := range fp.literals {
			if lit != "" && (strings.Contains(t, lit) || strings.Contains(fn, lit)) {
				return fp, true
			}
		}
	}
	return nil, false
}

// Score computes the weighted score of every scored platform for prepared (normalised,
// lowercased) text and filename. The penalty is applied.
func (c *Classifier) Score(t, fn string) map[domain.Platform]int {
	scores := zeroScores()
	vendorTax := c.hasVendorTaxID(t)

	for i := range c.platforms {
		s := &c.platforms[i]
		total := 0
		if fn != "" && countContains(fn, s.filenameHints) > 0 {
			total += s.filenameBonus
		}
		for _, sig := range s.signals {
			if sig.hit(t, fn) {
				total += sig.bonus
			}
		}
		total += s.strongBonus * countContains(t, s.strong)
		total += s.weakBonus * countContains(t, s.weak)
		for _, cb := range s.context {
			if strings.Contains(t, cb.Literal) &&
				(countContains(t, cb.TextAny) > 0 || countContains(fn, cb.FilenameAny) > 0) {
				total += cb.Bonus
			}
		}
		if vendorTax {
			total += s.vendorTaxID
		}
		scores[s.platform] += total
	}

	c.applyPenalty(scores)
	return scores
}

func (c *Classifier) applyPenalty(scores map[domain.Platform]int) {
	target := domain.Platform(c.penalty.Platform)
	if target == "" {
		return
	}
	for _, tier := range c.penalty.Tiers {
		for _, label := range tier.When {
			if scores[domain.Platform(label)] >= tier.MinScore {
				scores[target] = scores[target] * tier.Percent / 100
				return
			}
		}
	}
}

func (c *Classifier) decide(t string, scores map[domain.Platform]int) domain.Platform {
	for i := range c.platforms {
		s := &c.platforms[i]
		if scores[s.platform] >= s.threshold {
			return s.platform
		}
	}

	best, bestScore := domain.PlatformUnknown, -1
	for i := range c.platforms {
		p := c.platforms[i].platform
		if scores[p] > bestScore {
			best, bestScore = p, scores[p]
		}
	}
	if bestScore >= c.fallbackMin && best.IsKnown() {
		return best
	}

	if countContains(t, c.invoicePhrases) > 0 && c.hasVendorTaxID(t) {
		return domain.PlatformThaiTax
	}
	return domain.PlatformUnknown
}

func (c *Classifier) hasVendorTaxID(t string) bool {
	for _, m := range c.taxID.FindAllStringSubmatch(t, -1) {
		id := m[0]
		if len(m) > 1 {
			id = m[1]
		}
		if id != "" && !c.clientTaxIDs[id] {
			return true
		}
	}
	return false
}

func zeroScores() map[domain.Platform]int {
	out := make(map[domain.Platform]int, len(domain.ScoredPlatforms))
	for _, p := range domain.ScoredPlatforms {
		out[p] = 0
	}
	return out
}

// countContains counts the unique non-empty needles contained in s.
func countContains(s string, needles []string) int {
	if s == "" {
		return 0
	}
	seen := make(map[string]bool, len(needles))
	n := 0
	for _, needle := range needles {
		if needle == "" || seen[needle] {
			continue
		}
		seen[needle] = true
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
