// Package catalog holds the fixed product list and the pure filter over it.
package catalog

import "github.com/oksasatya/go-ddd-storefront/internal/domain/entity"

// Catalog is a read-only product list fixed at startup.
type Catalog struct {
	products []entity.Product
	byID     map[int]int
}

// New copies products into a catalog. Later changes to the slice are not seen.
func New(products []entity.Product) *Catalog {
	c := &Catalog{
		products: make([]entity.Product, len(products)),
		byID:     make(map[int]int, len(products)),
	}
	copy(c.products, products)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Default is the storefront's seeded catalog. imageURL resolves an asset
// name to the reference clients should load; nil keeps the bare asset name.
func Default(imageURL func(asset string) string) *Catalog {
	if imageURL == nil {
		imageURL = func(asset string) string { return asset }
	}
	return New([]entity.Product{
		{ID: 1, Name: "Estantería ecológica", Price: 1200, Category: entity.CategoryHome, Description: "Hecha con materiales reciclados, resistente y moderna.", Image: imageURL("estanteria.jpg")},
		{ID: 2, Name: "Maceta ecológica", Price: 350, Category: entity.CategoryHome, Description: "Perfecta para plantas pequeñas, hecha con materiales reciclados.", Image: imageURL("maceta.jpg")},
		{ID: 3, Name: "Bidet portátil", Price: 750, Category: entity.CategoryHygiene, Description: "Alternativa ecológica para el baño, reutilizable y práctica.", Image: imageURL("bidet.jpg")},
		{ID: 4, Name: "Lámpara ecológica", Price: 570, Category: entity.CategoryAccessories, Description: "Funciona con energía solar, ideal para interiores o exteriores.", Image: imageURL("lampara.jpg")},
		{ID: 5, Name: "Cucharas de bambú", Price: 200, Category: entity.CategoryHome, Description: "Set de cucharas biodegradables, naturales y duraderas.", Image: imageURL("cucharas.jpg")},
	})
}

// Assets lists the image asset names of the default catalog.
func Assets() []string {
	return []string{"estanteria.jpg", "maceta.jpg", "bidet.jpg", "lampara.jpg", "cucharas.jpg"}
}

// All returns the products in catalog order.
func (c *Catalog) All() []entity.Product {
	out := make([]entity.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get looks a product up by id.
func (c *Catalog) Get(id int) (entity.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.Product{}, false
	}
	return c.products[i], true
}

// Visible applies f to the catalog.
func (c *Catalog) Visible(f Filter) []entity.Product {
	return Visible(c.products, f)
}
