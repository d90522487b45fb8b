package constants

// DefaultCategory is one entry of the taxonomy a new household starts with.
type DefaultCategory struct {
	Name          string
	Subcategories []string
}

// DefaultTaxonomy seeds every new household. Households can adjust their
// categories afterwards; the extraction prompt always reads the live rows.
var DefaultTaxonomy = []DefaultCategory{
	{Name: "Alimentación", Subcategories: []string{"Supermercado", "Restaurantes", "Comida a domicilio"}},
	{Name: "Casa", Subcategories: []string{"Alquiler", "Hipoteca", "Mantenimiento", "Suministros"}},
	{Name: "Ocio", Subcategories: []string{"Viajes", "Cine", "Deporte"}},
	{Name: "Salud", Subcategories: []string{"Farmacia", "Médico", "Seguro"}},
	{Name: "Transporte", Subcategories: []string{"Gasolina", "Transporte público", "Taxi"}},
	{Name: "Otros", Subcategories: []string{"Varios"}},
}
