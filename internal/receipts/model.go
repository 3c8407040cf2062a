// Package receipts holds the typed receipt document and the Store used by
// commands to read and mutate it.
//
// A Document maps vault names to Vaults. A Vault holds named Collections of
// Receipts, one per archived file, and the asynchronous Jobs still pending
// against the vault. Mappings keep insertion order so listings follow upload
// order.
package receipts

import (
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CurrentVersion is the schema version written by this program.
const CurrentVersion = 2

// JobTypeInventory is the only job type tracked in pending_jobs.
const JobTypeInventory = "inventory-retrieval"

// Document is the whole persisted receipt store.
type Document struct {
	Version int                                    `json:"version"`
	Vaults  *orderedmap.OrderedMap[string, *Vault] `json:"vaults"`
}

// NewDocument returns an empty document at CurrentVersion.
func NewDocument() *Document {
	return &Document{
		Version: CurrentVersion,
		Vaults:  orderedmap.New[string, *Vault](),
	}
}

// Normalize replaces absent containers with empty ones so callers never see
// nil mappings or sequences after decoding.
func (d *Document) Normalize() {
	if d.Vaults == nil {
		d.Vaults = orderedmap.New[string, *Vault]()
	}
	for pair := d.Vaults.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			pair.Value = NewVault()
			continue
		}
		pair.Value.normalize()
	}
}

// Check reports the first structural defect that Normalize cannot repair:
// a null entry where a receipt is expected.
func (d *Document) Check() error {
	if d.Vaults == nil {
		return nil
	}
	for vp := d.Vaults.Oldest(); vp != nil; vp = vp.Next() {
		if vp.Value == nil || vp.Value.Collections == nil {
			continue
		}
		for cp := vp.Value.Collections.Oldest(); cp != nil; cp = cp.Next() {
			if cp.Value == nil {
				continue
			}
			for i, r := range cp.Value.Receipts {
				if r == nil {
					return fmt.Errorf("vault %q collection %q: receipt %d is null", vp.Key, cp.Key, i)
				}
			}
		}
	}
	return nil
}

// Vault holds the collections and pending jobs of one remote vault.
type Vault struct {
	Collections *orderedmap.OrderedMap[string, *Collection] `json:"collections"`
	PendingJobs Jobs                                         `json:"pending_jobs"`
}

// NewVault returns a vault with no collections and no pending jobs.
func NewVault() *Vault {
	return &Vault{
		Collections: orderedmap.New[string, *Collection](),
		PendingJobs: Jobs{},
	}
}

func (v *Vault) normalize() {
	if v.Collections == nil {
		v.Collections = orderedmap.New[string, *Collection]()
	}
	for pair := v.Collections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == nil {
			pair.Value = &Collection{}
		}
	}
	if v.PendingJobs == nil {
		v.PendingJobs = Jobs{}
	}
}

// Collection is an ordered sequence of receipts. It is encoded as a plain
// JSON array.
type Collection struct {
	Receipts []*Receipt
}

// MarshalJSON encodes the receipts as an array, never as null.
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c == nil || c.Receipts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Receipts)
}

// UnmarshalJSON decodes a JSON array of receipts.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var rs []*Receipt
	if err := json.Unmarshal(data, &rs); err != nil {
		return err
	}
	c.Receipts = rs
	return nil
}

// Len returns the number of receipts in c.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Receipts)
}

// Find returns the receipt recorded for filename, or nil.
func (c *Collection) Find(filename string) *Receipt {
	for _, r := range c.Receipts {
		if r != nil && r.Filename == filename {
			return r
		}
	}
	return nil
}

// Append adds r at the end of c.
func (c *Collection) Append(r *Receipt) {
	c.Receipts = append(c.Receipts, r)
}

// Retain visits receipts in order and keeps only those for which keep
// returns true. It returns the number of receipts removed.
func (c *Collection) Retain(keep func(*Receipt) bool) int {
	kept := c.Receipts[:0]
	removed := 0
	for _, r := range c.Receipts {
		if keep(r) {
			kept = append(kept, r)
		} else {
			removed++
		}
	}
	for i := len(kept); i < len(c.Receipts); i++ {
		c.Receipts[i] = nil
	}
	c.Receipts = kept
	return removed
}

// Receipt is the local record of one file's archive attempt.
type Receipt struct {
	Filename        string           `json:"filename"`
	Description     string           `json:"description"`
	Size            int64            `json:"size"`
	Completed       Timestamp        `json:"completed"`
	Error           *string          `json:"error"`
	GlacierResponse *GlacierResponse `json:"glacier_response"`

	Extra Extra `json:"-"`
}

var receiptFields = []string{"filename", "description", "size", "completed", "error", "glacier_response"}

func (r *Receipt) MarshalJSON() ([]byte, error) {
	type plain Receipt
	data, err := json.Marshal((*plain)(r))
	if err != nil {
		return nil, err
	}
	return r.Extra.appendTo(data)
}

func (r *Receipt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	type plain Receipt
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := splitExtra(data, receiptFields...)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = Receipt(p)
	return nil
}

// GlacierResponse is either the success triple (archive id, checksum,
// location) or the failure pair (error code, message). Only the members of
// one shape are written.
type GlacierResponse struct {
	ArchiveID      string
	Checksum       string
	Location       string
	GlacierError   string
	GlacierMessage string

	Extra Extra

	failure bool
}

var glacierResponseFields = []string{"archive_id", "checksum", "location", "glacier_error", "glacier_message"}

type glacierSuccess struct {
	ArchiveID string `json:"archive_id"`
	Checksum  string `json:"checksum"`
	Location  string `json:"location"`
}

type glacierFailure struct {
	GlacierError   string `json:"glacier_error"`
	GlacierMessage string `json:"glacier_message"`
}

// Failed reports whether g has the failure shape.
func (g *GlacierResponse) Failed() bool {
	return g.failure || g.GlacierError != "" || g.GlacierMessage != ""
}

func (g *GlacierResponse) MarshalJSON() ([]byte, error) {
	var v any = glacierSuccess{ArchiveID: g.ArchiveID, Checksum: g.Checksum, Location: g.Location}
	if g.Failed() {
		v = glacierFailure{GlacierError: g.GlacierError, GlacierMessage: g.GlacierMessage}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return g.Extra.appendTo(data)
}

func (g *GlacierResponse) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var all struct {
		glacierSuccess
		GlacierError   *string `json:"glacier_error"`
		GlacierMessage *string `json:"glacier_message"`
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	extra, err := splitExtra(data, glacierResponseFields...)
	if err != nil {
		return err
	}
	*g = GlacierResponse{
		ArchiveID: all.ArchiveID,
		Checksum:  all.Checksum,
		Location:  all.Location,
		Extra:     extra,
		failure:   all.GlacierError != nil || all.GlacierMessage != nil,
	}
	if all.GlacierError != nil {
		g.GlacierError = *all.GlacierError
	}
	if all.GlacierMessage != nil {
		g.GlacierMessage = *all.GlacierMessage
	}
	return nil
}

// DefaultDescription is the description given to a new receipt.
func DefaultDescription(collection, filename string) string {
	return collection + "::" + filename
}

// ArchiveID returns the remote archive id or "".
func (r *Receipt) ArchiveID() string {
	if r == nil || r.GlacierResponse == nil {
		return ""
	}
	return r.GlacierResponse.ArchiveID
}

// Archived reports whether r carries a non-empty archive id.
func (r *Receipt) Archived() bool {
	return r.ArchiveID() != ""
}

// ErrorMessage returns the recorded failure message or "".
func (r *Receipt) ErrorMessage() string {
	if r == nil || r.Error == nil {
		return ""
	}
	return *r.Error
}

// MarkSucceeded records a successful upload finished at at.
func (r *Receipt) MarkSucceeded(archiveID, checksum, location string, at time.Time) {
	r.Error = nil
	r.GlacierResponse = &GlacierResponse{
		ArchiveID: archiveID,
		Checksum:  checksum,
		Location:  location,
	}
	r.Completed = NewTimestamp(at)
}

// MarkFailed records a failed attempt finished at at. code and detail are
// stored in the glacier_response failure pair; an empty code leaves
// glacier_response unset.
func (r *Receipt) MarkFailed(msg, code, detail string, at time.Time) {
	r.Error = &msg
	if code == "" {
		r.GlacierResponse = nil
	} else {
		r.GlacierResponse = &GlacierResponse{GlacierError: code, GlacierMessage: detail}
	}
	r.Completed = NewTimestamp(at)
}

// Job is an outstanding asynchronous request against a vault.
type Job struct {
	Type      string    `json:"type"`
	Requested Timestamp `json:"requested"`
	JobID     string    `json:"job_id"`
	Location  string    `json:"location"`
}

// Jobs is the ordered pending-job sequence of a vault.
type Jobs []Job

// Append adds j at the end of the sequence.
func (j *Jobs) Append(job Job) {
	*j = append(*j, job)
}

// legacyTimeLayout is how earlier releases wrote timestamps.
const legacyTimeLayout = "2006-01-02 15:04:05 -0700"

// Timestamp is a time encoded as RFC 3339. Decoding also accepts the legacy
// "2006-01-02 15:04:05 -0700" form. The zero value is encoded as null.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t with second precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, legacyTimeLayout} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", s)
}

// String returns the timestamp formatted for listings, or "never".
func (t Timestamp) String() string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(legacyTimeLayout)
}
