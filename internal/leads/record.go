package leads

import "fmt"

// Unknown is the placeholder stored in any field no strategy could resolve.
const Unknown = "unknown"

// LeadRecord is one accepted business listing.
type LeadRecord struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Rating  string `json:"rating"`
	Reviews string `json:"reviews"`
}

// Header names the CSV columns in record field order.
var Header = []string{"Business Name", "Phone Number", "Website", "Rating", "Number of Reviews"}

// Row returns the record's fields in Header order.
func (r LeadRecord) Row() []string {
	return []string{r.Name, r.Phone, r.Website, r.Rating, r.Reviews}
}

// Complete reports whether every field holds a value or the Unknown sentinel.
func (r LeadRecord) Complete() bool {
	for _, v := range r.Row() {
		if v == "" {
			return false
		}
	}
	return true
}

// Reason describes why a run stopped.
type Reason string

const (
	ReasonTargetReached   Reason = "target_reached"
	ReasonBudgetExhausted Reason = "budget_exhausted"
	ReasonAborted         Reason = "aborted"
)

// ResultSet holds accepted records in insertion order.
type ResultSet struct {
	Target     int
	Records    []LeadRecord
	Passes     int
	Expansions int
	Reason     Reason
}

func newResultSet(target int) *ResultSet {
	return &ResultSet{Target: target, Records: make([]LeadRecord, 0, target)}
}

// Len returns the number of accepted records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Full reports whether the target has been reached.
func (rs *ResultSet) Full() bool {
	return rs.Len() >= rs.Target
}

func (rs *ResultSet) add(r LeadRecord) {
	if rs.Full() {
		return
	}
	rs.Records = append(rs.Records, r)
}

func (rs *ResultSet) String() string {
	return fmt.Sprintf("%d/%d leads after %d passes, %d expansions (%s)",
		rs.Len(), rs.Target, rs.Passes, rs.Expansions, rs.Reason)
}
