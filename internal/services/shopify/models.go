package shopify

// Product represents a Shopify product as served by the admin REST API.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle"`
	Status   string    `json:"status"`
	Variants []Variant `json:"variants"`
}

// Variant represents a product variant. Price is a decimal string on the
// wire and stays one here.
type Variant struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"product_id"`
	Title           string  `json:"title"`
	Price           string  `json:"price"`
	Sku             string  `json:"sku"`
	Position        int     `json:"position"`
	Option1         *string `json:"option1"`
	Option2         *string `json:"option2"`
	Option3         *string `json:"option3"`
	InventoryItemID int64   `json:"inventory_item_id"`
}

// InventoryLevel is the available quantity of one inventory item at one
// location. Transient: recomputed on every stock read, never persisted.
type InventoryLevel struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	LocationID      int64 `json:"location_id"`
	Available       int   `json:"available"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type productResponse struct {
	Product Product `json:"product"`
}

type variantResponse struct {
	Variant Variant `json:"variant"`
}

type inventoryLevelsResponse struct {
	InventoryLevels []InventoryLevel `json:"inventory_levels"`
}

type inventoryLevelResponse struct {
	InventoryLevel InventoryLevel `json:"inventory_level"`
}
