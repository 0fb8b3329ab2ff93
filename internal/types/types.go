package types

import "time"

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Series is a daily price history ordered oldest first.
type Series []Candle

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}

func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Vol
	}
	return out
}

// Verdict is the outcome of one strategy evaluation for one ticker.
// Immutable once produced.
type Verdict struct {
	PassFilter bool           `json:"pass_filter"`
	Metrics    map[string]any `json:"metrics,omitempty"`
	Reason     string         `json:"reason"`
}

// ShortlistRecord is the write-once artifact of one screening run.
type ShortlistRecord struct {
	ShortlistID    string             `json:"shortlist_id"`
	Strategy       string             `json:"strategy"`
	Timestamp      time.Time          `json:"timestamp"`
	NumTickers     int                `json:"num_tickers"`
	NumShortlisted int                `json:"num_shortlisted"`
	Shortlisted    []string           `json:"shortlisted_tickers"`
	Results        map[string]Verdict `json:"results"`
}

type NewsArticle struct {
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	Source       string    `json:"source"`
	Summary      string    `json:"summary,omitempty"`
	PublishedRaw string    `json:"published"`
	PublishedAt  time.Time `json:"published_dt"`
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NewNewsArticle builds an article from raw feed fields. An unparsable
// publish date falls back to the current time so PublishedAt is never zero.
func NewNewsArticle(title, link, source, published string) NewsArticle {
	a := NewsArticle{
		Title:        title,
		Link:         link,
		Source:       source,
		PublishedRaw: published,
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, published); err == nil {
			a.PublishedAt = t
			return a
		}
	}
	a.PublishedAt = time.Now()
	return a
}

// FilterConfig selects one news filter and its parameters. Dispatch is on
// Name; only the fields that filter reads are meaningful.
type FilterConfig struct {
	Name    string   `yaml:"name" json:"name"`
	Hours   int      `yaml:"hours,omitempty" json:"hours,omitempty"`
	Sources []string `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// MarketDriver is the closed set of categories the analyst may assign as
// the cause of a price move.
type MarketDriver string

const (
	DriverEarnings    MarketDriver = "Earnings/Guidance"
	DriverOrderWin    MarketDriver = "Order/Contract Win"
	DriverExpansion   MarketDriver = "Capacity/Product Launch"
	DriverMergersAcq  MarketDriver = "M&A/Strategic Tie-up"
	DriverCorpAction  MarketDriver = "Corporate Action"
	DriverManagement  MarketDriver = "Management Change"
	DriverRegulatory  MarketDriver = "Regulatory/Govt Policy"
	DriverLegal       MarketDriver = "Legal/Litigation"
	DriverMacro       MarketDriver = "Macro/Sector Trend"
	DriverInsider     MarketDriver = "Insider/Block Deal"
	DriverRating      MarketDriver = "Analyst Upgrade/Downgrade"
	DriverInclusion   MarketDriver = "Index Inclusion/Exclusion"
	DriverSpeculation MarketDriver = "Speculation/Technical"
	DriverNoise       MarketDriver = "Noise/Unknown"
)

// MarketDrivers lists every allowed driver, in the order presented to the
// LLM provider.
func MarketDrivers() []MarketDriver {
	return []MarketDriver{
		DriverEarnings, DriverOrderWin, DriverExpansion,
		DriverMergersAcq, DriverCorpAction, DriverManagement,
		DriverRegulatory, DriverLegal, DriverMacro,
		DriverInsider, DriverRating, DriverInclusion,
		DriverSpeculation, DriverNoise,
	}
}

func (d MarketDriver) Valid() bool {
	for _, v := range MarketDrivers() {
		if d == v {
			return true
		}
	}
	return false
}

// AnalysisResult is the structured output of one per-ticker LLM vetting call.
type AnalysisResult struct {
	SentimentScore   float64        `json:"sentiment_score"`
	ConvictionScore  int            `json:"conviction_score"`
	PrimaryDriver    MarketDriver   `json:"primary_driver"`
	SecondaryDrivers []MarketDriver `json:"secondary_drivers"`
	IsOperatorTrap   bool           `json:"is_operator_trap"`
	Reasoning        string         `json:"reasoning"`
	RedFlags         []string       `json:"red_flags"`
}

// Workflow stages, in execution order.
const (
	StageInit         = "INIT"
	StageNewsFetched  = "NEWS_FETCHED"
	StageNewsFiltered = "NEWS_FILTERED"
	StageAnalyzing    = "ANALYZING"
	StageShortlisted  = "SHORTLISTED"
	StageDone         = "DONE"
)

// AnalystState is the full workflow state, owned by the workflow driver for
// the duration of a run and persisted after every mutation.
type AnalystState struct {
	RunID      string `json:"run_id"`
	AnalysisID string `json:"analysis_id"`
	Strategy   string `json:"strategy"`
	Stage      string `json:"stage"`

	QueryPrefix string         `json:"news_query_prefix"`
	QuerySuffix string         `json:"news_query_suffix"`
	Filters     []FilterConfig `json:"news_filters"`

	ConvictionThreshold float64 `json:"conviction_threshold"`
	SentimentThreshold  float64 `json:"sentiment_threshold"`
	TopN                int     `json:"top_n"`

	FilteredNews    map[string][]NewsArticle  `json:"filtered_news"`
	AnalysisResults map[string]AnalysisResult `json:"analysis_results"`
	FinalShortlist  map[int]string            `json:"final_shortlist"`
}
