package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"needy/domain"
)

const unknownLabel = "Unknown"

type statsUC struct {
	repo    domain.StatsRepo
	admins  domain.AdminRepo
	TimeOut time.Duration
}

func NewStatsUseCase(repo domain.StatsRepo, admins domain.AdminRepo, timeOut time.Duration) domain.StatsUseCase {
	return &statsUC{
		repo:    repo,
		admins:  admins,
		TimeOut: timeOut,
	}
}

func (suc *statsUC) RegisterStats(ctx context.Context) (*domain.RegisterStats, error) {
	ctx, cancel := withTimeout(ctx, suc.TimeOut)
	defer cancel()

	adminChart, err := suc.adminChart(ctx)
	if err != nil {
		return nil, err
	}

	provinces, err := suc.repo.CountByProvince(ctx)
	if err != nil {
		return nil, err
	}
	education, err := suc.repo.CountByEducationLevel(ctx)
	if err != nil {
		return nil, err
	}
	goodTypes, err := suc.repo.CountByGoodType(ctx)
	if err != nil {
		return nil, err
	}
	childrenChart, err := suc.childrenChart(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RegisterStats{
		AdminStats:          *adminChart,
		ProvinceStats:       labelChart(*provinces, "Needy per province", "#36A2EB"),
		EducationLevelStats: educationChart(*education),
		TypeGoodStats:       labelChart(*goodTypes, "Needy per good type", "#FFCE56"),
		ChildrenNumberStats: *childrenChart,
	}, nil
}

// adminChart groups by admin id and labels each bar with the admin's name,
// so admins sharing a name stay separate.
func (suc *statsUC) adminChart(ctx context.Context) (*domain.Chart, error) {
	rows, err := suc.repo.CountByAdmin(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(*rows))
	for _, row := range *rows {
		ids = append(ids, row.AdminID)
	}
	admins, err := suc.admins.GetAdminsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(*admins))
	for _, admin := range *admins {
		if name := joinNonEmpty(&admin.FirstName, &admin.LastName); name != nil {
			names[admin.AdminID] = *name
		}
	}

	chart := domain.Chart{
		Labels:   make([]string, 0, len(*rows)),
		IDs:      ids,
		Datasets: []domain.Dataset{{Label: "Needy per admin", Data: make([]int64, 0, len(*rows)), BackgroundColor: "#4BC0C0"}},
	}
	for _, row := range *rows {
		label, ok := names[row.AdminID]
		if !ok {
			label = fmt.Sprintf("Admin %d", row.AdminID)
		}
		chart.Labels = append(chart.Labels, label)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, row.Total)
	}
	return &chart, nil
}

func labelChart(rows []domain.LabelCount, title, color string) domain.Chart {
	chart := domain.Chart{
		Labels:   make([]string, 0, len(rows)),
		Datasets: []domain.Dataset{{Label: title, Data: make([]int64, 0, len(rows)), BackgroundColor: color}},
	}
	for _, row := range rows {
		label := unknownLabel
		if row.Label != nil && *row.Label != "" {
			label = *row.Label
		}
		chart.Labels = append(chart.Labels, label)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, row.Total)
	}
	return chart
}

// educationChart always lists every canonical level in order.
func educationChart(rows []domain.LabelCount) domain.Chart {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Label != nil {
			counts[*row.Label] += row.Total
		}
	}

	data := make([]int64, len(domain.EducationLevels))
	for i, level := range domain.EducationLevels {
		data[i] = counts[level]
	}
	labels := make([]string, len(domain.EducationLevels))
	copy(labels, domain.EducationLevels)

	return domain.Chart{
		Labels:   labels,
		Datasets: []domain.Dataset{{Label: "Needy per education level", Data: data, BackgroundColor: "#9966FF"}},
	}
}

// childrenChart buckets registrants by number of children. The zero bucket
// is the registrants not counted by any other bucket.
func (suc *statsUC) childrenChart(ctx context.Context) (*domain.Chart, error) {
	buckets, err := suc.repo.ChildrenPerRegister(ctx)
	if err != nil {
		return nil, err
	}
	total, err := suc.repo.CountRegisters(ctx)
	if err != nil {
		return nil, err
	}

	var withChildren int64
	for _, b := range *buckets {
		withChildren += b.Total
	}
	zero := total - withChildren
	if zero < 0 {
		zero = 0
	}

	chart := domain.Chart{
		Labels:   []string{"0"},
		Datasets: []domain.Dataset{{Label: "Needy per number of children", Data: []int64{zero}, BackgroundColor: "#FF6384"}},
	}
	for _, b := range *buckets {
		chart.Labels = append(chart.Labels, strconv.Itoa(b.Children))
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, b.Total)
	}
	return &chart, nil
}
