package catalog

// seedProducts is the storefront catalog. It never changes at runtime.
var seedProducts = []seedProduct{
	{ID: "1", Name: "Yamaha YZF-R1", Price: 1599000, Image: "/images/products/placeholder1.jpg", Category: "Спортивные", Rating: 4.9, Slug: "yamaha-yzf-r1"},
	{ID: "2", Name: "Harley-Davidson Street 750", Price: 899000, Image: "/images/products/placeholder2.jpg", Category: "Круизеры", Rating: 4.7, Slug: "harley-davidson-street-750"},
	{ID: "3", Name: "BMW R 1250 GS Adventure", Price: 2199000, Image: "/images/products/placeholder3.jpg", Category: "Туристические", Rating: 4.9, Slug: "bmw-r1250-gs-adventure"},
	{ID: "4", Name: "Ducati Panigale V4", Price: 2899000, Image: "/images/products/placeholder4.jpg", Category: "Спортивные", Rating: 4.8, Slug: "ducati-panigale-v4"},
	{ID: "5", Name: "Honda CRF450L", Price: 749000, Image: "/images/products/placeholder5.jpg", Category: "Эндуро", Rating: 4.6, Slug: "honda-crf450l"},
	{ID: "6", Name: "Kawasaki Ninja ZX-10R", Price: 1799000, Image: "/images/products/placeholder6.jpg", Category: "Спортивные", Rating: 4.8, Slug: "kawasaki-ninja-zx10r"},
	{ID: "7", Name: "Indian Scout Bobber", Price: 1399000, Image: "/images/products/placeholder7.jpg", Category: "Круизеры", Rating: 4.7, Slug: "indian-scout-bobber"},
	{ID: "8", Name: "Suzuki V-Strom 1050", Price: 1299000, Image: "/images/products/placeholder9.jpg", Category: "Туристические", Rating: 4.6, Slug: "suzuki-v-strom-1050"},
	{ID: "9", Name: "KTM 390 Duke", Price: 599000, Image: "/images/products/placeholder8.jpg", Category: "Нейкеды", Rating: 4.7, Slug: "ktm-390-duke"},
	{ID: "10", Name: "Triumph Street Triple RS", Price: 1499000, Image: "/images/products/placeholder10.jpg", Category: "Нейкеды", Rating: 4.9, Slug: "triumph-street-triple-rs"},
	{ID: "11", Name: "Yamaha MT-09", Price: 1099000, Image: "/images/products/placeholder11.jpg", Category: "Нейкеды", Rating: 4.8, Slug: "yamaha-mt-09"},
	{ID: "12", Name: "Honda Africa Twin", Price: 1699000, Image: "/images/products/placeholder12.jpg", Category: "Туристические", Rating: 4.8, Slug: "honda-africa-twin"},
	{ID: "13", Name: "Aprilia RSV4", Price: 2499000, Image: "/images/products/placeholder13.jpg", Category: "Спортивные", Rating: 4.9, Slug: "aprilia-rsv4"},
	{ID: "14", Name: "MV Agusta F4", Price: 3299000, Image: "/images/products/placeholder14.jpg", Category: "Спортивные", Rating: 4.8, Slug: "mv-agusta-f4"},
	{ID: "15", Name: "Harley-Davidson Fat Boy", Price: 1999000, Image: "/images/products/placeholder15.jpg", Category: "Круизеры", Rating: 4.7, Slug: "harley-davidson-fat-boy"},
	{ID: "16", Name: "Triumph Rocket 3", Price: 2499000, Image: "/images/products/placeholder16.jpg", Category: "Круизеры", Rating: 4.8, Slug: "triumph-rocket-3"},
	{ID: "17", Name: "Yamaha FJR1300", Price: 1899000, Image: "/images/products/placeholder17.jpg", Category: "Туристические", Rating: 4.7, Slug: "yamaha-fjr1300"},
	{ID: "18", Name: "KTM 1290 Super Adventure", Price: 2099000, Image: "/images/products/placeholder18.jpg", Category: "Туристические", Rating: 4.8, Slug: "ktm-1290-super-adventure"},
	{ID: "19", Name: "KTM 450 EXC-F", Price: 999000, Image: "/images/products/placeholder19.jpg", Category: "Эндуро", Rating: 4.7, Slug: "ktm-450-exc-f"},
	{ID: "20", Name: "Husqvarna FE 501", Price: 1149000, Image: "/images/products/placeholder20.jpg", Category: "Эндуро", Rating: 4.8, Slug: "husqvarna-fe-501"},
	{ID: "21", Name: "Yamaha WR450F", Price: 899000, Image: "/images/products/placeholder21.jpg", Category: "Эндуро", Rating: 4.6, Slug: "yamaha-wr450f"},
	{ID: "22", Name: "Ducati Monster 821", Price: 1299000, Image: "/images/products/placeholder22.jpg", Category: "Нейкеды", Rating: 4.7, Slug: "ducati-monster-821"},
	{ID: "23", Name: "BMW F 900 R", Price: 1199000, Image: "/images/products/placeholder23.jpg", Category: "Нейкеды", Rating: 4.8, Slug: "bmw-f-900-r"},
	{ID: "24", Name: "Kawasaki Z900", Price: 999000, Image: "/images/products/placeholder24.jpg", Category: "Нейкеды", Rating: 4.7, Slug: "kawasaki-z900"},
	{ID: "25", Name: "Royal Enfield Classic 350", Price: 399000, Image: "/images/products/placeholder25.jpg", Category: "Классика", Rating: 4.5, Slug: "royal-enfield-classic-350"},
	{ID: "26", Name: "Triumph Bonneville T120", Price: 1499000, Image: "/images/products/placeholder26.jpg", Category: "Классика", Rating: 4.8, Slug: "triumph-bonneville-t120"},
	{ID: "27", Name: "Moto Guzzi V7", Price: 1099000, Image: "/images/products/placeholder27.jpg", Category: "Классика", Rating: 4.6, Slug: "moto-guzzi-v7"},
	{ID: "28", Name: "BMW R nineT", Price: 1799000, Image: "/images/products/placeholder28.jpg", Category: "Классика", Rating: 4.9, Slug: "bmw-r-ninet"},
	{ID: "29", Name: "Шлем AGV K6", Price: 29900, Image: "/images/products/placeholder29.jpg", Category: "Экипировка", Rating: 4.7, Slug: "agv-k6-helmet"},
	{ID: "30", Name: "Куртка Alpinestars GP Pro", Price: 49900, Image: "/images/products/placeholder30.jpg", Category: "Экипировка", Rating: 4.8, Slug: "alpinestars-gp-pro-jacket"},
	{ID: "31", Name: "Перчатки Dainese Full Metal", Price: 12900, Image: "/images/products/placeholder31.jpg", Category: "Экипировка", Rating: 4.6, Slug: "dainese-full-metal-gloves"},
	{ID: "32", Name: "Ботинки TCX X-Five", Price: 24900, Image: "/images/products/placeholder32.jpg", Category: "Экипировка", Rating: 4.7, Slug: "tcx-x-five-boots"},
	{ID: "33", Name: "Защита коленей Alpinestars", Price: 8900, Image: "/images/products/placeholder33.jpg", Category: "Экипировка", Rating: 4.5, Slug: "alpinestars-knee-protection"},
	{ID: "34", Name: "Тормозные колодки EBC", Price: 4900, Image: "/images/products/placeholder34.jpg", Category: "Запчасти", Rating: 4.6, Slug: "ebc-brake-pads"},
	{ID: "35", Name: "Масляный фильтр K&N", Price: 1900, Image: "/images/products/placeholder35.jpg", Category: "Запчасти", Rating: 4.7, Slug: "kn-oil-filter"},
	{ID: "36", Name: "Цепь DID 520", Price: 12900, Image: "/images/products/placeholder36.jpg", Category: "Запчасти", Rating: 4.8, Slug: "did-520-chain"},
	{ID: "37", Name: "Свечи зажигания NGK", Price: 2900, Image: "/images/products/placeholder37.jpg", Category: "Запчасти", Rating: 4.6, Slug: "ngk-spark-plugs"},
	{ID: "38", Name: "Воздушный фильтр BMC", Price: 5900, Image: "/images/products/placeholder38.jpg", Category: "Запчасти", Rating: 4.7, Slug: "bmc-air-filter"},
}

var seedCategories = []Category{
	{ID: 1, Name: "Спортивные", Slug: "sport"},
	{ID: 2, Name: "Круизеры", Slug: "cruisers"},
	{ID: 3, Name: "Туристические", Slug: "touring"},
	{ID: 4, Name: "Эндуро", Slug: "enduro"},
	{ID: 5, Name: "Нейкеды", Slug: "naked"},
	{ID: 6, Name: "Классика", Slug: "classic"},
	{ID: 7, Name: "Экипировка", Slug: "gear"},
	{ID: 8, Name: "Запчасти", Slug: "parts"},
}
