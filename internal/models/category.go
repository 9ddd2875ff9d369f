package models

import "fmt"

// Category — закрытое перечисление категорий подписок.
// Строка из запроса разбирается один раз через ParseCategory,
// дальше по коду передаётся только типизированное значение.
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryProductivity  Category = "productivity"
	CategoryHealth        Category = "health"
	CategoryFood          Category = "food"
	CategoryOther         Category = "other"
)

// Categories возвращает все допустимые категории в фиксированном порядке.
func Categories() []Category {
	return []Category{
		CategoryEntertainment,
		CategoryProductivity,
		CategoryHealth,
		CategoryFood,
		CategoryOther,
	}
}

// ParseCategory проверяет строку и превращает её в Category.
// Возвращает ErrInvalidCategory, если значение не входит в набор.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid сообщает, входит ли категория в допустимый набор.
func (c Category) Valid() bool {
	switch c {
	case CategoryEntertainment, CategoryProductivity, CategoryHealth, CategoryFood, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
