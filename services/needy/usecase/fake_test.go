package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"needy/domain"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeRegisterRepo keeps the aggregate in maps. Transaction restores a
// snapshot when fn fails.
type fakeRegisterRepo struct {
	mu           sync.Mutex
	registers    map[int]domain.Register
	children     map[int]domain.ChildrenOfRegister
	goods        map[int]domain.Good
	messages     map[int]int
	nextID       int
	failChildren error
	failGoods    error
	failSync     error
}

func newFakeRegisterRepo() *fakeRegisterRepo {
	return &fakeRegisterRepo{
		registers: map[int]domain.Register{},
		children:  map[int]domain.ChildrenOfRegister{},
		goods:     map[int]domain.Good{},
		messages:  map[int]int{},
		nextID:    100,
	}
}

func (f *fakeRegisterRepo) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeRegisterRepo) Transaction(_ context.Context, fn func(repo domain.RegisterRepo) error) error {
	f.mu.Lock()
	regs, children, goods := copyMap(f.registers), copyMap(f.children), copyMap(f.goods)
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.registers, f.children, f.goods = regs, children, goods
		f.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *fakeRegisterRepo) CreateRegister(_ context.Context, reg *domain.Register) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg.PhoneNormalized != nil {
		for _, r := range f.registers {
			if r.PhoneNormalized != nil && *r.PhoneNormalized == *reg.PhoneNormalized {
				return domain.ErrDuplicatePhone
			}
		}
	}
	reg.RegisterID = f.id()
	f.registers[reg.RegisterID] = *reg
	return nil
}

func (f *fakeRegisterRepo) GetRegisterByID(_ context.Context, id int) (*domain.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.registers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &reg, nil
}

func (f *fakeRegisterRepo) GetRegisterByNormalizedPhone(_ context.Context, phone string) (*domain.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.registers {
		if reg.PhoneNormalized != nil && *reg.PhoneNormalized == phone {
			return &reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegisterRepo) UpdateRegister(_ context.Context, reg *domain.Register) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers[reg.RegisterID] = *reg
	return nil
}

func (f *fakeRegisterRepo) DeleteRegisterCascade(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for gid, g := range f.goods {
		if g.GivenToWhome == id {
			delete(f.goods, gid)
		}
	}
	for mid, to := range f.messages {
		if to == id {
			delete(f.messages, mid)
		}
	}
	for cid, c := range f.children {
		if c.RegisterID == id {
			delete(f.children, cid)
		}
	}
	delete(f.registers, id)
	return nil
}

func (f *fakeRegisterRepo) FindRegisters(_ context.Context, filter *domain.RegisterFilter) (*[]domain.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Register
	for _, reg := range f.registers {
		if filter != nil && filter.LastName != nil && reg.LastName != *filter.LastName {
			continue
		}
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisterID < out[j].RegisterID })
	return &out, nil
}

func (f *fakeRegisterRepo) ListRegisterPhones(_ context.Context) (*[]domain.RegisterPhone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RegisterPhone
	for _, reg := range f.registers {
		out = append(out, domain.RegisterPhone{RegisterID: reg.RegisterID, Phone: reg.Phone})
	}
	return &out, nil
}

func (f *fakeRegisterRepo) CountRegisters(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.registers)), nil
}

func (f *fakeRegisterRepo) LastCreatedRegister(_ context.Context) (*domain.Register, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *domain.Register
	for _, reg := range f.registers {
		if last == nil || reg.RegisterID > last.RegisterID {
			r := reg
			last = &r
		}
	}
	return last, nil
}

func (f *fakeRegisterRepo) FindNeedyLocations(_ context.Context, disconnected bool) (*[]domain.GeoRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GeoRow
	for _, reg := range f.registers {
		if reg.IsDisconnected != disconnected || reg.Latitude == nil || reg.Longitude == nil {
			continue
		}
		first, last := reg.FirstName, reg.LastName
		out = append(out, domain.GeoRow{
			ID: reg.RegisterID, Latitude: *reg.Latitude, Longitude: *reg.Longitude,
			FirstName: &first, LastName: &last, City: reg.City, Street: reg.Street, Phone: reg.Phone,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &out, nil
}

func (f *fakeRegisterRepo) CreateChildren(_ context.Context, children []domain.ChildrenOfRegister) error {
	if len(children) == 0 {
		return nil
	}
	if f.failChildren != nil {
		return f.failChildren
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range children {
		children[i].ChildrenOfRegisterID = f.id()
		f.children[children[i].ChildrenOfRegisterID] = children[i]
	}
	return nil
}

func (f *fakeRegisterRepo) GetChildByID(_ context.Context, id int) (*domain.ChildrenOfRegister, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	child, ok := f.children[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &child, nil
}

func (f *fakeRegisterRepo) GetChildrenByRegisterID(_ context.Context, registerID int) (*[]domain.ChildrenOfRegister, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.ChildrenOfRegister{}
	for _, c := range f.children {
		if c.RegisterID == registerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChildrenOfRegisterID < out[j].ChildrenOfRegisterID })
	return &out, nil
}

func (f *fakeRegisterRepo) UpdateChild(_ context.Context, child *domain.ChildrenOfRegister) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children[child.ChildrenOfRegisterID] = *child
	return nil
}

func (f *fakeRegisterRepo) DeleteChild(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.children, id)
	return nil
}

func (f *fakeRegisterRepo) CreateGoods(_ context.Context, goods []domain.Good) error {
	if len(goods) == 0 {
		return nil
	}
	if f.failGoods != nil {
		return f.failGoods
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range goods {
		goods[i].GoodID = f.id()
		f.goods[goods[i].GoodID] = goods[i]
	}
	return nil
}

func (f *fakeRegisterRepo) GetGoodByID(_ context.Context, id int) (*domain.Good, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	good, ok := f.goods[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &good, nil
}

func (f *fakeRegisterRepo) GetGoodsByRegisterID(_ context.Context, registerID int) (*[]domain.Good, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Good{}
	for _, g := range f.goods {
		if g.GivenToWhome == registerID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GoodID < out[j].GoodID })
	return &out, nil
}

func (f *fakeRegisterRepo) UpdateGood(_ context.Context, good *domain.Good) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goods[good.GoodID] = *good
	return nil
}

func (f *fakeRegisterRepo) ApplyGoodSync(_ context.Context, plan *domain.GoodSyncPlan) error {
	if f.failSync != nil {
		return f.failSync
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range plan.Updates {
		f.goods[g.GoodID] = g
	}
	for i := range plan.Inserts {
		plan.Inserts[i].GoodID = f.id()
		f.goods[plan.Inserts[i].GoodID] = plan.Inserts[i]
	}
	for _, id := range plan.DeleteIDs {
		delete(f.goods, id)
	}
	return nil
}

func (f *fakeRegisterRepo) LastCreatedGood(_ context.Context) (*domain.Good, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *domain.Good
	for _, g := range f.goods {
		if last == nil || g.GoodID > last.GoodID {
			good := g
			last = &good
		}
	}
	return last, nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[int]domain.Admin
	nextID int
}

func newFakeAdminRepo(admins ...domain.Admin) *fakeAdminRepo {
	f := &fakeAdminRepo{admins: map[int]domain.Admin{}}
	for _, a := range admins {
		f.admins[a.AdminID] = a
		if a.AdminID > f.nextID {
			f.nextID = a.AdminID
		}
	}
	return f
}

func (f *fakeAdminRepo) CreateAdmin(_ context.Context, admin *domain.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	admin.AdminID = f.nextID
	f.admins[admin.AdminID] = *admin
	return nil
}

func (f *fakeAdminRepo) GetAdminByID(_ context.Context, id int) (*domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &admin, nil
}

func (f *fakeAdminRepo) GetAdminsByIDs(_ context.Context, ids []int) (*[]domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Admin{}
	for _, id := range ids {
		if admin, ok := f.admins[id]; ok {
			out = append(out, admin)
		}
	}
	return &out, nil
}

func (f *fakeAdminRepo) GetAdminByLogin(_ context.Context, login string) (*domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, admin := range f.admins {
		if (admin.Phone != nil && *admin.Phone == login) || (admin.Email != nil && *admin.Email == login) {
			return &admin, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminRepo) UpdateAdmin(_ context.Context, admin *domain.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins[admin.AdminID] = *admin
	return nil
}

func (f *fakeAdminRepo) DeleteAdmin(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.admins[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeAdminRepo) FirstAdminID(_ context.Context) (*int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first *int
	for id := range f.admins {
		if first == nil || id < *first {
			n := id
			first = &n
		}
	}
	return first, nil
}

func (f *fakeAdminRepo) CountAdmins(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) LastCreatedAdmin(_ context.Context) (*domain.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *domain.Admin
	for _, admin := range f.admins {
		if last == nil || admin.AdminID > last.AdminID {
			a := admin
			last = &a
		}
	}
	return last, nil
}

func (f *fakeAdminRepo) FindAdminLocations(_ context.Context) (*[]domain.GeoRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GeoRow
	for _, admin := range f.admins {
		if admin.Latitude == nil || admin.Longitude == nil {
			continue
		}
		first, last, role := admin.FirstName, admin.LastName, admin.UserRole
		out = append(out, domain.GeoRow{
			ID: admin.AdminID, Latitude: *admin.Latitude, Longitude: *admin.Longitude,
			FirstName: &first, LastName: &last, City: admin.City, Street: admin.Street, Role: &role,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return &out, nil
}

type fakeSender struct {
	phone, code string
	err         error
}

func (s *fakeSender) SendCode(_ context.Context, phone, code string) error {
	s.phone, s.code = phone, code
	return s.err
}

type fakeStatsRepo struct {
	byAdmin     []domain.AdminCount
	byProvince  []domain.LabelCount
	byEducation []domain.LabelCount
	byGoodType  []domain.LabelCount
	buckets     []domain.BucketCount
	total       int64
}

func (f *fakeStatsRepo) CountByAdmin(context.Context) (*[]domain.AdminCount, error) {
	return &f.byAdmin, nil
}

func (f *fakeStatsRepo) CountByProvince(context.Context) (*[]domain.LabelCount, error) {
	return &f.byProvince, nil
}

func (f *fakeStatsRepo) CountByEducationLevel(context.Context) (*[]domain.LabelCount, error) {
	return &f.byEducation, nil
}

func (f *fakeStatsRepo) CountByGoodType(context.Context) (*[]domain.LabelCount, error) {
	return &f.byGoodType, nil
}

func (f *fakeStatsRepo) ChildrenPerRegister(context.Context) (*[]domain.BucketCount, error) {
	return &f.buckets, nil
}

func (f *fakeStatsRepo) CountRegisters(context.Context) (int64, error) {
	return f.total, nil
}

type fakeMessageRepo struct {
	messages map[int]domain.Message
	nextID   int
}

func (f *fakeMessageRepo) CreateMessage(_ context.Context, msg *domain.Message) error {
	f.nextID++
	msg.MessageID = f.nextID
	f.messages[msg.MessageID] = *msg
	return nil
}

func (f *fakeMessageRepo) GetMessageByID(_ context.Context, id int) (*domain.Message, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &msg, nil
}

func (f *fakeMessageRepo) UpdateMessage(_ context.Context, msg *domain.Message) error {
	f.messages[msg.MessageID] = *msg
	return nil
}

var errBoom = errors.New("boom")
