package config

// Category is one entry of the site taxonomy. Listing pages match posts by
// slug equality against the normalizer's output, so top-level slugs must
// stay byte-for-byte consistent with normalize.Slugify over the names.
// Subcategory slugs follow the site's historical URLs and may differ.
type Category struct {
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	SubCategories []SubCategory `json:"subCategories,omitempty"`
}

// SubCategory is a second-level taxonomy entry.
type SubCategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Categories is the serving site's category tree.
var Categories = []Category{
	{
		Name: "Thời sự",
		Slug: "thoi-su",
		SubCategories: []SubCategory{
			{Name: "Chính trị", Slug: "chinh-tri"},
			{Name: "Nhân sự", Slug: "nhan-su"},
			{Name: "Kỷ nguyên mới", Slug: "ky-nguyen-moi"},
			{Name: "Dân sinh", Slug: "dan-sinh"},
			{Name: "Việc làm", Slug: "viec-lam"},
			{Name: "Giao thông", Slug: "giao-thong"},
			{Name: "Mekong", Slug: "mekong"},
			{Name: "Quỹ Hy vọng", Slug: "quy-hy-vong"},
		},
	},
	{
		Name: "Thế giới",
		Slug: "the-gioi",
		SubCategories: []SubCategory{
			{Name: "Tư liệu", Slug: "tu-lieu"},
			{Name: "Phân tích", Slug: "phan-tich"},
			{Name: "Người Việt 5 châu", Slug: "nguoi-viet-5-chau"},
			{Name: "Cuộc sống đó đây", Slug: "cuoc-song-do-day"},
			{Name: "Quân sự", Slug: "quan-su"},
		},
	},
	{
		Name: "Kinh doanh",
		Slug: "kinh-doanh",
		SubCategories: []SubCategory{
			{Name: "NetZero", Slug: "net-zero"},
			{Name: "Quốc tế", Slug: "quoc-te"},
			{Name: "Doanh nghiệp", Slug: "doanh-nghiep"},
			{Name: "Chứng khoán", Slug: "chung-khoan"},
			{Name: "Ebank", Slug: "ebank"},
			{Name: "Vĩ mô", Slug: "vi-mo"},
			{Name: "Tiền của tôi", Slug: "tien-cua-toi"},
			{Name: "Hàng hóa", Slug: "hang-hoa"},
		},
	},
	{
		Name: "Công nghệ",
		Slug: "cong-nghe",
		SubCategories: []SubCategory{
			{Name: "AI", Slug: "ai"},
			{Name: "Chuyển đổi số", Slug: "chuyen-doi-so"},
			{Name: "Nhịp sống số", Slug: "nhip-song-so"},
			{Name: "Thiết bị", Slug: "thiet-bi"},
			{Name: "Trải nghiệm", Slug: "trai-nghiem"},
			{Name: "GameVerse 2025", Slug: "vgv-2025"},
		},
	},
	{
		Name: "Khoa học",
		Slug: "khoa-hoc",
		SubCategories: []SubCategory{
			{Name: "Tin tức", Slug: "tin-tuc"},
			{Name: "Đổi mới sáng tạo", Slug: "doi-moi-sang-tao"},
			{Name: "Bàn tròn", Slug: "ban-tron"},
			{Name: "Nhân vật", Slug: "nhan-vat"},
			{Name: "Cửa sổ tri thức", Slug: "cua-so-tri-thuc"},
			{Name: "Thế giới tự nhiên", Slug: "the-gioi-tu-nhien"},
			{Name: "Vũ trụ", Slug: "vu-tru"},
			{Name: "Sáng kiến khoa học 2025", Slug: "cuoc-thi-sang-kien-khoa-hoc"},
		},
	},
	{
		Name: "Góc nhìn",
		Slug: "goc-nhin",
		SubCategories: []SubCategory{
			{Name: "Bình luận nhiều", Slug: "binh-luan-nhieu"},
			{Name: "Chính trị & chính sách", Slug: "chinh-tri-chinh-sach"},
			{Name: "Y tế & sức khỏe", Slug: "y-te-suc-khoe"},
			{Name: "Kinh doanh & quản trị", Slug: "kinh-doanh-quan-tri"},
			{Name: "Giáo dục & tri thức", Slug: "giao-duc-tri-thuc"},
			{Name: "Môi trường", Slug: "moi-truong"},
			{Name: "Văn hóa & lối sống", Slug: "van-hoa-loi-song"},
			{Name: "Covid 19", Slug: "covid-19"},
			{Name: "Tác giả", Slug: "tac-gia"},
		},
	},
}
