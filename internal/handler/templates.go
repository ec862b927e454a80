package handler

import (
	"fmt"
	"html/template"
	"time"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"year": func() int {
			return time.Now().Year()
		},
		// money formats an amount in minor units as dollars, e.g. 1250 -> "$12.50"
		"money": func(cents int64) string {
			return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
		},
		// moneyf formats a float dollar amount, used for tax and grand
		// total which are computed in floating point
		"moneyf": func(amount float64) string {
			return fmt.Sprintf("$%.2f", amount)
		},
		// hasKey lets the layout distinguish "absent" from "zero" for
		// optional data like the cart counter
		"hasKey": func(m map[string]interface{}, key string) bool {
			_, ok := m[key]
			return ok
		},
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i + 1
			}
			return s
		},
	}
}
