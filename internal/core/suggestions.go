package core

// CategorySuggestion is a predefined category offered by the UI when
// tagging an account. Suggestions are hints only: the stored category is
// free text and is not constrained to this list.
type CategorySuggestion struct {
	ID          string
	Name        string
	Description string
}

// Suggestions is the static suggestion set shown in the category picker.
var Suggestions = []CategorySuggestion{
	{ID: "trabajo", Name: "Trabajo", Description: "Cuentas relacionadas con el trabajo"},
	{ID: "educacion", Name: "Educación", Description: "Cursos, academias y plataformas educativas"},
	{ID: "finanzas", Name: "Finanzas", Description: "Bancos, inversiones y finanzas"},
	{ID: "redes-sociales", Name: "Redes Sociales", Description: "Facebook, Instagram, Twitter, etc."},
	{ID: "entretenimiento", Name: "Entretenimiento", Description: "Netflix, Spotify, juegos, etc."},
	{ID: "compras", Name: "Compras", Description: "E-commerce y tiendas online"},
	{ID: "desarrollo", Name: "Desarrollo", Description: "GitHub, hosting, herramientas dev"},
	{ID: "personal", Name: "Personal", Description: "Cuentas personales y privadas"},
	{ID: "salud", Name: "Salud", Description: "Apps de salud y bienestar"},
	{ID: "otros", Name: "Otros", Description: "Otras categorías"},
}
