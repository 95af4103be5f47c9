package legacy

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Rushilchauhan45/sitely/internal/ledger"
)

// Keys of the legacy flat store. Each entity key holds one JSON array;
// the two settings keys hold plain strings.
const (
	KeySites    = "sites"
	KeyWorkers  = "workers"
	KeyWages    = "wage"
	KeyExpenses = "expense"
	KeyPayments = "payment"
	KeyPhotos   = "photo"

	KeyLanguage  = "language"
	KeyOnboarded = "onboarded"
)

// Blob is the legacy flat key-value store: every value is a raw string,
// either a JSON array (entity keys) or a scalar (settings keys).
type Blob map[string]string

// Load reads the legacy store file. A missing file yields an empty
// blob and no error: there is simply nothing to migrate.
func Load(path string) (Blob, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Blob{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy store: %w", err)
	}

	var blob Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decode legacy store: %w", err)
	}
	return blob, nil
}

// Entries splits an entity key's array into raw elements so one
// malformed record cannot block the rest of its type.
func (b Blob) Entries(key string) ([]json.RawMessage, error) {
	raw, ok := b[key]
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode legacy %q array: %w", key, err)
	}
	return entries, nil
}

// Scalar returns a settings value, empty when absent.
func (b Blob) Scalar(key string) string { return b[key] }

// Legacy record shapes, field names as the old flat store wrote them.

type legacySite struct {
	ID        string `json:"id"`
	Name      string `json:"siteName"`
	Type      string `json:"siteType"`
	Address   string `json:"address"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsRunning bool   `json:"isRunning"`
	OwnerName string `json:"ownerName"`
	Contact   string `json:"contactNo"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

type legacyWorker struct {
	ID       string `json:"id"`
	SiteID   string `json:"siteId"`
	Name     string `json:"workerName"`
	Age      int    `json:"age"`
	Mobile   string `json:"mobile"`
	Village  string `json:"village"`
	Category string `json:"category"`
	Photo    string `json:"photo"`
	JoinedOn string `json:"joiningDate"`
}

type legacyRecord struct {
	ID          string  `json:"id"`
	SiteID      string  `json:"siteId"`
	WorkerID    string  `json:"workerId"`
	WorkerName  string  `json:"workerName"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Overtime    float64 `json:"overtime"`
	Description string  `json:"description"`
	Method      string  `json:"paymentMethod"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
}

type legacyPhoto struct {
	ID        string `json:"id"`
	SiteID    string `json:"siteId"`
	Path      string `json:"path"`
	Caption   string `json:"caption"`
	CreatedAt int64  `json:"createdAt"`
}

const legacyDateLayout = "2006-01-02"

// parseLegacyDate parses a legacy date string. Empty is allowed (the
// old app left optional dates blank); a malformed value is an error so
// the record counts as a conversion failure instead of migrating with
// a coerced date that the retention sweep would immediately delete.
func parseLegacyDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(legacyDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed legacy date %q: %w", s, err)
	}
	return t, nil
}

// parseRecordDate is parseLegacyDate for the three ledger streams,
// where a date is mandatory: a dateless financial record would sort
// before the retention horizon and be swept at the next start.
func parseRecordDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("legacy record has no date")
	}
	return parseLegacyDate(s)
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func (l legacySite) toSite() (ledger.Site, error) {
	start, err := parseLegacyDate(l.StartDate)
	if err != nil {
		return ledger.Site{}, err
	}
	site := ledger.Site{
		ID:        l.ID,
		Name:      l.Name,
		Type:      ledger.SiteType(l.Type),
		Location:  l.Address,
		StartDate: start,
		IsRunning: l.IsRunning,
		OwnerName: l.OwnerName,
		Contact:   l.Contact,
		CreatedAt: fromMillis(l.CreatedAt),
	}
	if l.EndDate != "" {
		t, err := parseLegacyDate(l.EndDate)
		if err != nil {
			return ledger.Site{}, err
		}
		site.EndDate = &t
	}
	return site, nil
}

func (l legacyWorker) toWorker() (ledger.Worker, error) {
	joined, err := parseLegacyDate(l.JoinedOn)
	if err != nil {
		return ledger.Worker{}, err
	}
	return ledger.Worker{
		ID:       l.ID,
		SiteID:   l.SiteID,
		Name:     l.Name,
		Age:      l.Age,
		Contact:  l.Mobile,
		Village:  l.Village,
		Category: normalizeCategory(l.Category),
		PhotoRef: l.Photo,
		JoinedOn: joined,
	}, nil
}

func (l legacyRecord) toWage() (ledger.WageRecord, error) {
	date, err := parseRecordDate(l.Date)
	if err != nil {
		return ledger.WageRecord{}, err
	}
	return ledger.WageRecord{
		ID:             l.ID,
		SiteID:         l.SiteID,
		WorkerID:       l.WorkerID,
		WorkerName:     l.WorkerName,
		WorkerCategory: normalizeCategory(l.Category),
		Amount:         l.Amount,
		Overtime:       l.Overtime,
		Date:           date,
		TimeOfDay:      l.Time,
	}, nil
}

func (l legacyRecord) toExpense() (ledger.ExpenseRecord, error) {
	date, err := parseRecordDate(l.Date)
	if err != nil {
		return ledger.ExpenseRecord{}, err
	}
	return ledger.ExpenseRecord{
		ID:             l.ID,
		SiteID:         l.SiteID,
		WorkerID:       l.WorkerID,
		WorkerName:     l.WorkerName,
		WorkerCategory: normalizeCategory(l.Category),
		Amount:         l.Amount,
		Description:    l.Description,
		Date:           date,
		TimeOfDay:      l.Time,
	}, nil
}

func (l legacyRecord) toPayment() (ledger.PaymentRecord, error) {
	date, err := parseRecordDate(l.Date)
	if err != nil {
		return ledger.PaymentRecord{}, err
	}
	return ledger.PaymentRecord{
		ID:             l.ID,
		SiteID:         l.SiteID,
		WorkerID:       l.WorkerID,
		WorkerName:     l.WorkerName,
		WorkerCategory: normalizeCategory(l.Category),
		Amount:         l.Amount,
		Method:         normalizeMethod(l.Method),
		Date:           date,
		TimeOfDay:      l.Time,
	}, nil
}

func (l legacyPhoto) toPhoto() ledger.Photo {
	return ledger.Photo{
		ID:        l.ID,
		SiteID:    l.SiteID,
		Ref:       l.Path,
		Caption:   l.Caption,
		CreatedAt: fromMillis(l.CreatedAt),
	}
}

// normalizeCategory lowers the legacy store's mixed-case category
// labels. Unknown values pass through so the insert surfaces them as a
// constraint violation instead of being silently coerced.
func normalizeCategory(s string) ledger.WorkerCategory {
	switch s {
	case "Skilled", "skilled", "SKILLED":
		return ledger.Skilled
	case "Unskilled", "unskilled", "UNSKILLED":
		return ledger.Unskilled
	}
	return ledger.WorkerCategory(s)
}

func normalizeMethod(s string) ledger.PaymentMethod {
	switch s {
	case "Cash", "cash", "":
		return ledger.PayCash
	case "UPI", "upi", "Upi":
		return ledger.PayUPI
	case "Bank", "bank", "BANK":
		return ledger.PayBank
	}
	return ledger.PaymentMethod(s)
}
