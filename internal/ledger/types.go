package ledger

import "time"

// SiteType classifies a construction site.
type SiteType string

const (
	SiteResidential SiteType = "residential"
	SiteCommercial  SiteType = "commercial"
	SiteRowHouse    SiteType = "row-house"
	SiteTenement    SiteType = "tenement"
	SiteShop        SiteType = "shop"
	SiteOther       SiteType = "other"
)

// Valid reports whether t is one of the allowed site types.
func (t SiteType) Valid() bool {
	switch t {
	case SiteResidential, SiteCommercial, SiteRowHouse, SiteTenement, SiteShop, SiteOther:
		return true
	}
	return false
}

// WorkerCategory is the skill class of a worker. Exactly two values.
type WorkerCategory string

const (
	Skilled   WorkerCategory = "skilled"
	Unskilled WorkerCategory = "unskilled"
)

// Valid reports whether c is one of the two allowed categories.
func (c WorkerCategory) Valid() bool {
	return c == Skilled || c == Unskilled
}

// PaymentMethod tags how a payment was disbursed.
type PaymentMethod string

const (
	PayCash PaymentMethod = "cash"
	PayUPI  PaymentMethod = "upi"
	PayBank PaymentMethod = "bank"
)

// Valid reports whether m is one of the allowed payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PayCash || m == PayUPI || m == PayBank
}

// Unit is a material measurement unit. Closed enum.
type Unit string

const (
	UnitKg      Unit = "kg"
	UnitQuintal Unit = "quintal"
	UnitTon     Unit = "ton"
	UnitLitre   Unit = "litre"
	UnitBag     Unit = "bag"
	UnitPiece   Unit = "piece"
	UnitBrass   Unit = "brass"
	UnitSqft    Unit = "sqft"
	UnitCuft    Unit = "cuft"
	UnitMeter   Unit = "meter"
)

// Valid reports whether u is one of the allowed units.
func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitQuintal, UnitTon, UnitLitre, UnitBag,
		UnitPiece, UnitBrass, UnitSqft, UnitCuft, UnitMeter:
		return true
	}
	return false
}

// Site is a single construction site. All dependent entities cascade
// when the site is deleted.
type Site struct {
	ID        string
	Name      string
	Type      SiteType
	Location  string
	StartDate time.Time
	// EndDate is only meaningful when IsRunning is false.
	EndDate   *time.Time
	IsRunning bool
	OwnerName string
	Contact   string
	// Code is the 6-character share code, [A-Z0-9], possibly longer when
	// the generator fell back to a suffixed code. Empty if never issued.
	Code string
	// UserID is the owning user. Empty for sites created before
	// multi-user support; those stay visible to every caller.
	UserID    string
	CreatedAt time.Time
}

// Worker belongs to exactly one site.
type Worker struct {
	ID       string
	SiteID   string
	Name     string
	Age      int
	Contact  string
	Village  string
	Category WorkerCategory
	PhotoRef string
	JoinedOn time.Time
}

// WageRecord is one daily attendance ("hajari") entry for a worker.
// WorkerName and WorkerCategory are snapshots taken at record time.
type WageRecord struct {
	ID             string
	SiteID         string
	WorkerID       string
	WorkerName     string
	WorkerCategory WorkerCategory
	Amount         float64
	Overtime       float64
	Date           time.Time
	TimeOfDay      string
}

// ExpenseRecord is money advanced against a worker's earnings.
type ExpenseRecord struct {
	ID             string
	SiteID         string
	WorkerID       string
	WorkerName     string
	WorkerCategory WorkerCategory
	Amount         float64
	Description    string
	Date           time.Time
	TimeOfDay      string
}

// PaymentRecord is money actually disbursed to a worker.
type PaymentRecord struct {
	ID             string
	SiteID         string
	WorkerID       string
	WorkerName     string
	WorkerCategory WorkerCategory
	Amount         float64
	Method         PaymentMethod
	Date           time.Time
	TimeOfDay      string
}

// Material is a purchased stock item for a site. TotalAmount is
// computed as Quantity * Rate at write time and persisted.
type Material struct {
	ID           string
	SiteID       string
	Name         string
	VendorName   string
	VendorPhone  string
	Quantity     float64
	Unit         Unit
	Rate         float64
	TotalAmount  float64
	AmountPaid   float64
	BillPhotoRef string
	PurchasedAt  time.Time
}

// MaterialUsage records consumption from a material's stock.
type MaterialUsage struct {
	ID          string
	MaterialID  string
	Quantity    float64
	Description string
	Date        time.Time
}

// PhotoGroup is a named bucket of site photos.
type PhotoGroup struct {
	ID        string
	SiteID    string
	Name      string
	CreatedAt time.Time
}

// Photo belongs to a site and optionally to a group (GroupID empty when
// ungrouped). Deleting the group alone ungroups its photos; deleting
// the site removes both.
type Photo struct {
	ID        string
	SiteID    string
	GroupID   string
	Ref       string
	Caption   string
	CreatedAt time.Time
}

// Totals is the aggregate view of one worker's ledger within a site.
// Remaining = TotalWage - TotalExpense - TotalPaid.
type Totals struct {
	TotalWage    float64
	TotalExpense float64
	TotalPaid    float64
	Remaining    float64
}

// Stock is the remaining quantity of a material. Raw is the plain
// quantity - sum(usages) arithmetic and may be negative to signal
// over-consumption; Remaining is clamped at zero for display.
type Stock struct {
	Raw       float64
	Remaining float64
}

// SitePatch is a partial site update. Nil fields are left untouched.
type SitePatch struct {
	Name      *string
	Type      *SiteType
	Location  *string
	EndDate   *time.Time
	IsRunning *bool
	OwnerName *string
	Contact   *string
}

// WorkerPatch is a partial worker update. Nil fields are left
// untouched. Patching never rewrites the snapshots already stamped
// onto ledger rows.
type WorkerPatch struct {
	Name     *string
	Age      *int
	Contact  *string
	Village  *string
	Category *WorkerCategory
	PhotoRef *string
}

// MaterialPatch is a partial material update. When Quantity or Rate is
// supplied, TotalAmount is recomputed in the same transaction.
type MaterialPatch struct {
	Name         *string
	VendorName   *string
	VendorPhone  *string
	Quantity     *float64
	Unit         *Unit
	Rate         *float64
	AmountPaid   *float64
	BillPhotoRef *string
}
