package catalog

// SampleProducts is the starter catalog used on first run, after a corrupt
// load, and by LoadSample. Ids are assigned when the sample is applied.
func SampleProducts() []ProductInput {
	return []ProductInput{
		{
			Name:     "Classic White Sneakers",
			Price:    59.99,
			Stock:    12,
			Category: "Sneakers",
			Image:    "https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=800&auto=format&fit=crop",
		},
		{
			Name:     "Brown Leather Boots",
			Price:    129.99,
			Stock:    6,
			Category: "Boots",
			Image:    "https://images.unsplash.com/photo-1528701800489-20b8b9a75e4a?q=80&w=800&auto=format&fit=crop",
		},
		{
			Name:     "Coastal Sandals",
			Price:    29.50,
			Stock:    20,
			Category: "Sandals",
			Image:    "https://images.unsplash.com/photo-1460353581641-37baddab0fa2?q=80&w=800&auto=format&fit=crop",
		},
	}
}
