// internal/domain/product/catalog.go
package product

// unsplash image options shared by every seed entry
const seedImageOpts = "?w=400&h=400&fit=crop&auto=format"

func seedImage(photo string) string {
	return "https://images.unsplash.com/" + photo + seedImageOpts
}

// SeedProducts returns the default storefront catalog.
// IDs are left empty; each store assigns its own.
func SeedProducts() []Product {
	return []Product{
		// Electronics
		{Name: "Wireless Mouse", Price: 22, ImageURL: seedImage("photo-1527864550417-7fd91fc51a46"), Category: "Electronics", Stock: 30},
		{Name: "Bluetooth Headphones", Price: 55, ImageURL: seedImage("photo-1505740420928-5e560c06d30e"), Category: "Electronics", Stock: 20},
		{Name: "Mechanical Keyboard", Price: 89, ImageURL: seedImage("photo-1587829741301-dc798b83add3"), Category: "Electronics", Stock: 15},
		{Name: "Smartphone", Price: 699, ImageURL: seedImage("photo-1511707171634-5f897ff02aa9"), Category: "Electronics", Stock: 12},
		{Name: "Laptop", Price: 1199, ImageURL: seedImage("photo-1496181133206-80ce9b88a853"), Category: "Electronics", Stock: 8},

		// Furniture
		{Name: "Office Chair", Price: 120, ImageURL: seedImage("photo-1580480055273-228ff5388ef8"), Category: "Furniture", Stock: 10},
		{Name: "Wooden Desk", Price: 250, ImageURL: seedImage("photo-1518455027359-f3f8164ba6bd"), Category: "Furniture", Stock: 6},
		{Name: "Bookshelf", Price: 95, ImageURL: seedImage("photo-1555041469-a586c61ea9bc"), Category: "Furniture", Stock: 14},

		// Fashion
		{Name: "Running Shoes", Price: 80, ImageURL: seedImage("photo-1542291026-7eec264c27ff"), Category: "Fashion", Stock: 25},
		{Name: "Classic Wristwatch", Price: 149, ImageURL: seedImage("photo-1523275335684-37898b6baf30"), Category: "Fashion", Stock: 18},
		{Name: "Sunglasses", Price: 35, ImageURL: seedImage("photo-1572635196237-14b3f281503f"), Category: "Fashion", Stock: 50},

		// Accessories
		{Name: "Backpack", Price: 45, ImageURL: seedImage("photo-1553062407-98eeb64c6a62"), Category: "Accessories", Stock: 40},
		{Name: "Leather Wallet", Price: 28, ImageURL: seedImage("photo-1627123424574-724758594e93"), Category: "Accessories", Stock: 60},

		// Books
		{Name: "JavaScript: The Good Parts", Price: 18, ImageURL: seedImage("photo-1544716278-ca5e3f4abd8c"), Category: "Books", Stock: 35},
		{Name: "Clean Code", Price: 22, ImageURL: seedImage("photo-1512820790803-83ca734da794"), Category: "Books", Stock: 28},
	}
}
