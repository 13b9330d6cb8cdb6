package domain

// Category is one entry of the fixed report category set.
type Category struct {
	ID        int
	Name      string
	Color     string
	IconColor string
}

// categories is the fixed set; ids and color tokens are part of the contract
// with the screens that render them.
var categories = []Category{
	{ID: 1, Name: "Seguridad", Color: "from-red-500/20 to-red-600/10", IconColor: "text-red-400"},
	{ID: 2, Name: "Accidente", Color: "from-orange-500/20 to-orange-600/10", IconColor: "text-orange-400"},
	{ID: 3, Name: "Vía Pública", Color: "from-blue-500/20 to-blue-600/10", IconColor: "text-blue-400"},
	{ID: 4, Name: "Clima", Color: "from-cyan-500/20 to-cyan-600/10", IconColor: "text-cyan-400"},
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID returns the category with the given id, or false.
func CategoryByID(id int) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Payload returns the serializable transition payload for the category.
func (c Category) Payload() CategoryPayload {
	return CategoryPayload{
		CategoryID:   c.ID,
		CategoryName: c.Name,
		Color:        c.Color,
		IconColor:    c.IconColor,
	}
}
