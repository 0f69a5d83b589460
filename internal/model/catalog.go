package model

// Project keys of the fixed expense catalog. The display text doubles
// as the lookup key against ExpenseItem.Project, so these strings are a
// contract surface and must not change.
const (
	ProjectAccommodation   = "仅限于封闭培训期间发生的住宿费"
	ProjectTransport       = "交通费、租车费"
	ProjectEquipmentMoving = "教务人员大型培训用具搬运费"
	ProjectMeals           = "培训期间的正餐餐费"
	ProjectRefreshments    = "培训期间的茶点费"
	ProjectVenueRental     = "培训场地、培训专用设备的租赁费"
	ProjectMaterials       = "印制讲师、学员手册、相关培训书籍、资料、文具等费用"
	ProjectExternalTeacher = "聘请公司外讲师进行培训授课的课时费"
	ProjectFieldTrip       = "仅限于七天以上培训用于观摩、考察等费用"
	ProjectPromotion       = "提升培训效果宣传用品费(横幅、展板、胸卡等)"
	ProjectPhotos          = "学员合影留念的照片、培训现场照片等制作费用"
	ProjectMedicine        = "常用药品购买费用"
	ProjectMiscellaneous   = "教务公杂费"
)

// CatalogEntry is one fixed worksheet row: the catalog position decides
// where it renders, whether a matching ExpenseItem exists or not.
type CatalogEntry struct {
	Project  string // lookup key and expense-item cell text
	Category string // umbrella label; empty when covered by a span above
}

// Catalog is the ordered list of the 13 fixed expense rows, in
// worksheet order.
var Catalog = []CatalogEntry{
	{Project: ProjectAccommodation, Category: "住宿费"},
	{Project: ProjectTransport, Category: "交通费"},
	{Project: ProjectEquipmentMoving},
	{Project: ProjectMeals, Category: "餐费"},
	{Project: ProjectRefreshments},
	{Project: ProjectVenueRental, Category: "场地、设备租赁费"},
	{Project: ProjectMaterials, Category: "培训资料、文具费"},
	{Project: ProjectExternalTeacher, Category: "外聘教师课时费"},
	{Project: ProjectFieldTrip, Category: "培训活动费"},
	{Project: ProjectPromotion, Category: "培训宣传费"},
	{Project: ProjectPhotos, Category: "其他费用"},
	{Project: ProjectMedicine},
	{Project: ProjectMiscellaneous},
}

// CategorySpan is a vertical merge of a category-label cell across
// catalog rows sharing one umbrella category. Offsets are 0-based
// indexes into Catalog; the spans are fixed, not computed from data.
type CategorySpan struct {
	Start, End int
}

// CategorySpans: 交通费 covers the equipment-moving row, 餐费 covers the
// refreshments row, 其他费用 covers photos, medicine and miscellaneous.
var CategorySpans = []CategorySpan{
	{Start: 1, End: 2},
	{Start: 3, End: 4},
	{Start: 10, End: 12},
}
