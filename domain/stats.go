package domain

import "context"

// EducationLevels is the canonical, ordered vocabulary used by the education
// chart. Levels outside this list are not charted.
var EducationLevels = []string{
	"Kindergarten",
	"Primary",
	"Secondary",
	"High School",
	"Diploma",
	"Associate Degree",
	"Bachelor",
	"Master",
	"PhD",
}

type LabelCount struct {
	Label *string
	Total int64
}

type AdminCount struct {
	AdminID int
	Total   int64
}

type BucketCount struct {
	Children int
	Total    int64
}

type Dataset struct {
	Label           string  `json:"label"`
	Data            []int64 `json:"data"`
	BackgroundColor string  `json:"backgroundColor"`
}

type Chart struct {
	Labels   []string  `json:"labels"`
	IDs      []int     `json:"ids,omitempty"`
	Datasets []Dataset `json:"datasets"`
}

type RegisterStats struct {
	AdminStats          Chart `json:"adminStats"`
	ProvinceStats       Chart `json:"provinceStats"`
	EducationLevelStats Chart `json:"educationLevelStats"`
	TypeGoodStats       Chart `json:"typeGoodStats"`
	ChildrenNumberStats Chart `json:"childrenNumberStats"`
}

type StatsRepo interface {
	CountByAdmin(ctx context.Context) (*[]AdminCount, error)
	CountByProvince(ctx context.Context) (*[]LabelCount, error)
	CountByEducationLevel(ctx context.Context) (*[]LabelCount, error)
	CountByGoodType(ctx context.Context) (*[]LabelCount, error)
	ChildrenPerRegister(ctx context.Context) (*[]BucketCount, error)
	CountRegisters(ctx context.Context) (int64, error)
}

type StatsUseCase interface {
	RegisterStats(ctx context.Context) (*RegisterStats, error)
}
