package extraction

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// Field type keys understood by the catalog.
const (
	FieldBOLNumber       = "bol_number"
	FieldShipper         = "shipper"
	FieldConsignee       = "consignee"
	FieldNotifyParty     = "notify_party"
	FieldVessel          = "vessel"
	FieldVoyage          = "voyage"
	FieldPortOfLoad      = "port_of_load"
	FieldPortOfDischarge = "port_of_discharge"
	FieldFreightTerms    = "freight_terms"
	FieldDate            = "date_patterns"
	FieldWeight          = "weight_patterns"
	FieldQuantity        = "quantity_patterns"
	FieldGoods           = "goods_patterns"
)

// DefaultMatchTimeout bounds a single pattern application.
const DefaultMatchTimeout = 2 * time.Second

const months = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*`

// Section labels that terminate a multi-line block.
const (
	partyStops     = `(?:CONSIGNEE|NOTIFY|VESSEL)\b`
	fromStops      = `(?:TO|CONSIGNEE)\b`
	consigneeStops = `(?:NOTIFY|VESSEL|PORT\s+OF|FREIGHT)\b`
	notifyStops    = `(?:VESSEL|VOYAGE|PORT\s+OF|GOODS|DESCRIPTION)\b`
	goodsStops     = `[A-Z][A-Z ]*:`
)

// lineValue captures the rest of the line after a label. A label that ends
// its line with a colon takes its value from the next line, unless that line
// is itself a label.
const lineValue = `(?::[ \t]*\r?\n[ \t]*(?![A-Z][A-Z .'/]*:)|:?[ \t]*)([^\n]+)`

// block builds a multi-line section pattern: everything after label up to a
// blank line, the next stop label at the start of a line, or the end of
// text. A block that would begin with a stop label captures nothing.
func block(label, stops string) string {
	return label + `\s*(?!` + stops + `)(.*?)(?=\n[ \t]*\n|\n\s*` + stops + `|\s*\z)`
}

// defaultPatterns holds the built-in expressions per field, in priority
// order. Every expression has exactly one capture group; the date shapes
// capture the whole match.
var defaultPatterns = map[string][]string{
	FieldBOLNumber: {
		`\bB/L[ \t]*(?:No|Number|#)\.?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-/_]*)`,
		`\bBOL[ \t]*(?:No|Number|#)\.?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-/_]*)`,
		`\bBill[ \t]+of[ \t]+Lading[ \t]*(?:No|Number|#)\.?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-/_]*)`,
		`\bDocument[ \t]*(?:No|Number)\.?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-/_]*)`,
	},
	FieldShipper: {
		block(`\bSHIPPER\b(?!')\.?\s*:?`, partyStops),
		block(`\bEXPORTER\b(?!')\.?\s*:?`, partyStops),
		block(`\bFROM\s*:`, fromStops),
	},
	FieldConsignee: {
		block(`\bCONSIGNEE\b(?!')\.?\s*:?`, consigneeStops),
		block(`\bCONSIGNED[ \t]+TO\b(?!')\.?\s*:?`, consigneeStops),
		block(`\bTO\s*:`, consigneeStops),
	},
	FieldNotifyParty: {
		block(`\bNOTIFY[ \t]+PARTY\b(?!')\.?\s*:?`, notifyStops),
		block(`\bALSO[ \t]+NOTIFY\b(?!')\.?\s*:?`, notifyStops),
		block(`\bNOTIFY\s*:`, notifyStops),
	},
	FieldVessel: {
		`\bVESSEL(?:[ \t]*NAME)?\.?[ \t]*` + lineValue,
		`\bSHIP[ \t]*NAME\.?[ \t]*` + lineValue,
		`\bVSL\.?[ \t]*` + lineValue,
	},
	FieldVoyage: {
		`\bVOYAGE(?:[ \t]*(?:NO|NUMBER))?\.?[ \t]*` + lineValue,
		`\bVOY\.?[ \t]*(?:NO\.?)?[ \t]*` + lineValue,
	},
	FieldPortOfLoad: {
		`\bPORT[ \t]+OF[ \t]+(?:LOADING|LOAD)\.?[ \t]*` + lineValue,
		`\bLOAD(?:ING)?[ \t]+PORT\.?[ \t]*` + lineValue,
		`\bPLACE[ \t]+OF[ \t]+(?:RECEIPT|LOADING)\.?[ \t]*` + lineValue,
	},
	FieldPortOfDischarge: {
		`\bPORT[ \t]+OF[ \t]+(?:DISCHARGE|DESTINATION|DEST)\.?[ \t]*` + lineValue,
		`\bDISCHARGE[ \t]+PORT\.?[ \t]*` + lineValue,
		`\bPLACE[ \t]+OF[ \t]+DELIVERY\.?[ \t]*` + lineValue,
	},
	FieldFreightTerms: {
		`\bFREIGHT(?:[ \t]*TERMS)?\.?[ \t]*:?\s*(PREPAID|COLLECT|PAYABLE)`,
		`\bTERMS\.?[ \t]*:?\s*(PREPAID|COLLECT|PAYABLE)`,
	},
	FieldDate: {
		`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`,
		`(\d{1,2}\s+` + months + `\s+\d{2,4})`,
		`(` + months + `\s+\d{1,2},?\s+\d{2,4})`,
	},
	FieldWeight: {
		`\bGROSS[ \t]*(?:WEIGHT|WT)\.?[ \t]*:?[ \t]*([0-9][0-9,.]*[ \t]*(?:KGS|KG|LBS|MT|TONS|TON)\b)`,
		`\bNET[ \t]*(?:WEIGHT|WT)\.?[ \t]*:?[ \t]*([0-9][0-9,.]*[ \t]*(?:KGS|KG|LBS|MT|TONS|TON)\b)`,
		`(?:^|\n)[ \t]*(?:TOTAL[ \t]*)?WEIGHT\.?[ \t]*:?[ \t]*([0-9][0-9,.]*[ \t]*(?:KGS|KG|LBS|MT|TONS|TON)\b)`,
	},
	FieldQuantity: {
		`\b(?:NO\.?[ \t]*OF[ \t]*)?PACKAGES\.?[ \t]*:?[ \t]*([0-9][0-9,.]*(?:[ \t]+[A-Z]+)?)`,
		`\bQUANTITY\.?[ \t]*:?[ \t]*([0-9][0-9,.]*(?:[ \t]+[A-Z]+)?)`,
		`\bQTY\.?[ \t]*:?[ \t]*([0-9][0-9,.]*(?:[ \t]+[A-Z]+)?)`,
		`\bPKGS\.?[ \t]*:?[ \t]*([0-9][0-9,.]*(?:[ \t]+[A-Z]+)?)`,
	},
	FieldGoods: {
		block(`\bDESCRIPTION[ \t]+OF[ \t]+(?:GOODS|CARGO)\.?\s*:?`, goodsStops),
		block(`\bGOODS\.?[ \t]*:`, goodsStops),
		block(`\bCARGO\.?[ \t]*:`, goodsStops),
		block(`\bCOMMODITY\.?[ \t]*:`, goodsStops),
	},
}

// DefaultPatterns returns a copy of the built-in pattern table.
func DefaultPatterns() map[string][]string {
	out := make(map[string][]string, len(defaultPatterns))
	for k, v := range defaultPatterns {
		out[k] = append([]string(nil), v...)
	}
	return out
}

type pattern struct {
	source string
	re     *regexp2.Regexp
}

// Catalog holds, per field type, an ordered list of compiled expressions.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	fields map[string][]pattern
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	matchTimeout time.Duration
}

// WithMatchTimeout bounds the time a single pattern application may take.
func WithMatchTimeout(d time.Duration) CatalogOption {
	return func(o *catalogOptions) { o.matchTimeout = d }
}

// NewCatalog compiles patterns. Every field needs at least one expression, no
// expression may be empty, and every expression must compile.
func NewCatalog(patterns map[string][]string, opts ...CatalogOption) (*Catalog, error) {
	o := catalogOptions{matchTimeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalog{fields: make(map[string][]pattern, len(patterns))}
	for field, sources := range patterns {
		if len(sources) == 0 {
			return nil, fmt.Errorf("catalog: field %q has no patterns", field)
		}
		compiled := make([]pattern, 0, len(sources))
		for i, src := range sources {
			if strings.TrimSpace(src) == "" {
				return nil, fmt.Errorf("catalog: field %q pattern %d is empty", field, i)
			}
			re, err := regexp2.Compile(src, regexp2.IgnoreCase|regexp2.Singleline)
			if err != nil {
				return nil, fmt.Errorf("catalog: field %q pattern %d: %w", field, i, err)
			}
			if o.matchTimeout > 0 {
				re.MatchTimeout = o.matchTimeout
			}
			compiled = append(compiled, pattern{source: src, re: re})
		}
		c.fields[field] = compiled
	}
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the shared catalog built from the built-in patterns.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewCatalog(defaultPatterns)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Patterns returns the source expressions for fieldType in priority order.
// An unknown field type yields an empty slice.
func (c *Catalog) Patterns(fieldType string) []string {
	entries := c.fields[fieldType]
	out := make([]string, 0, len(entries))
	for _, p := range entries {
		out = append(out, p.source)
	}
	return out
}

// Fields returns the known field types, sorted.
func (c *Catalog) Fields() []string {
	out := make([]string, 0, len(c.fields))
	for k := range c.fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// first returns the raw capture of the first pattern for field whose capture
// is non-empty after trimming.
func (c *Catalog) first(field, text string) (string, error) {
	for _, p := range c.fields[field] {
		got, err := p.capture(text)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(got) != "" {
			return got, nil
		}
	}
	return "", nil
}

// capture applies the pattern once and returns its first group, or the whole
// match when the pattern has no groups.
func (p pattern) capture(text string) (string, error) {
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		return "", fmt.Errorf("pattern %q: %w", p.source, err)
	}
	if m == nil {
		return "", nil
	}
	if m.GroupCount() > 1 {
		return m.GroupByNumber(1).String(), nil
	}
	return m.String(), nil
}
