package model

type ActivityCategory string

const (
	CategoryMorning   ActivityCategory = "matin"
	CategoryAfternoon ActivityCategory = "apres-midi"
	CategoryEvening   ActivityCategory = "soir"
)

// Activity is one scannable unit of the festival programme. Code is the
// QR payload printed next to the venue; it is unique across the catalog.
// The binary collation keeps code comparison byte-wise — MySQL's default
// utf8mb4 collations are case-insensitive and would match "ficam-01"
// against "FICAM-01". Question and ExpectedAnswer are either both set or
// both empty.
// swagger:model Activity
type Activity struct {
	BaseModel
	Code           string           `gorm:"type:varchar(100) collate utf8mb4_bin;uniqueIndex;not null" json:"code"`
	Title          string           `gorm:"size:200;not null" json:"title"`
	Description    string           `gorm:"size:500" json:"description"`
	Category       ActivityCategory `gorm:"type:enum('matin','apres-midi','soir');default:'matin'" json:"category"`
	IsMandatory    bool             `gorm:"default:false" json:"isMandatory"`
	Question       string           `gorm:"size:300" json:"question"`
	ExpectedAnswer string           `gorm:"size:200" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}

// HasQuestion reports whether credit for this activity is gated behind a
// verification question.
func (a *Activity) HasQuestion() bool {
	return a.Question != ""
}
