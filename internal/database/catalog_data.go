package database

type SeedCategory struct {
	ID          string
	Name        string
	Icon        string
	Description string
}

type SeedProduct struct {
	Title         string
	Price         string
	OriginalPrice string
	Category      string
	Features      []string
	ImageColor    string
	Image         string
	IsBestSeller  bool
}

// DefaultCategories and DefaultProducts are the launch catalog loaded by
// cmd/seed. Prices are display strings, parsed the same way the cart does.
var DefaultCategories = []SeedCategory{
	{ID: "streaming", Name: "Streaming", Icon: "tv", Description: "Film dan serial tanpa iklan"},
	{ID: "music", Name: "Music", Icon: "music", Description: "Musik premium tanpa batas"},
	{ID: "design", Name: "Design", Icon: "palette", Description: "Tools desain profesional"},
	{ID: "productivity", Name: "Productivity", Icon: "briefcase", Description: "Aplikasi kerja dan belajar"},
}

var DefaultProducts = []SeedProduct{
	{
		Title:         "Netflix Premium 1 Bulan",
		Price:         "Rp 35.000",
		OriginalPrice: "Rp 186.000",
		Category:      "streaming",
		Features:      []string{"Kualitas 4K UHD", "Private profile", "Garansi full 30 hari"},
		ImageColor:    "bg-red-600",
		Image:         "/products/netflix.png",
		IsBestSeller:  true,
	},
	{
		Title:         "Disney+ Hotstar 1 Bulan",
		Price:         "Rp 25.000",
		OriginalPrice: "Rp 39.000",
		Category:      "streaming",
		Features:      []string{"Film Disney, Marvel, Star Wars", "Bisa di TV dan HP"},
		ImageColor:    "bg-blue-900",
		Image:         "/products/disney.png",
	},
	{
		Title:         "Vidio Platinum 1 Bulan",
		Price:         "Rp 20.000",
		OriginalPrice: "Rp 39.000",
		Category:      "streaming",
		Features:      []string{"Liga Inggris", "Sinetron dan original series"},
		ImageColor:    "bg-pink-600",
		Image:         "/products/vidio.png",
	},
	{
		Title:         "Spotify Premium (Individual)",
		Price:         "Rp 20.000",
		OriginalPrice: "Rp 54.990",
		Category:      "music",
		Features:      []string{"Tanpa iklan", "Download lagu offline", "Akun pribadi"},
		ImageColor:    "bg-green-600",
		Image:         "/products/spotify.png",
		IsBestSeller:  true,
	},
	{
		Title:         "YouTube Premium 1 Bulan",
		Price:         "Rp 15.000",
		OriginalPrice: "Rp 59.000",
		Category:      "music",
		Features:      []string{"YouTube tanpa iklan", "YouTube Music", "Putar di background"},
		ImageColor:    "bg-red-500",
		Image:         "/products/youtube.png",
		IsBestSeller:  true,
	},
	{
		Title:         "Canva Pro 1 Tahun",
		Price:         "Rp 45.000",
		OriginalPrice: "Rp 1.450.000",
		Category:      "design",
		Features:      []string{"Semua template premium", "Background remover", "Brand kit"},
		ImageColor:    "bg-cyan-500",
		Image:         "/products/canva.png",
		IsBestSeller:  true,
	},
	{
		Title:         "CapCut Pro 1 Bulan",
		Price:         "Rp 30.000",
		OriginalPrice: "Rp 119.000",
		Category:      "design",
		Features:      []string{"Efek dan transisi pro", "Ekspor tanpa watermark"},
		ImageColor:    "bg-gray-900",
		Image:         "/products/capcut.png",
	},
	{
		Title:         "ChatGPT Plus 1 Bulan",
		Price:         "Rp 85.000",
		OriginalPrice: "Rp 340.000",
		Category:      "productivity",
		Features:      []string{"Akses model terbaru", "Sharing 1 akun"},
		ImageColor:    "bg-emerald-700",
		Image:         "/products/chatgpt.png",
	},
	{
		Title:         "Microsoft 365 Family 1 Tahun",
		Price:         "Rp 150.000",
		OriginalPrice: "Rp 1.299.000",
		Category:      "productivity",
		Features:      []string{"Word, Excel, PowerPoint", "OneDrive 1TB"},
		ImageColor:    "bg-orange-600",
		Image:         "/products/office.png",
	},
}
