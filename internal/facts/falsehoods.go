package facts

import (
	"math/rand"
	"sync"
	"time"
)

// Plausible but false statements, Russian-language, shown as the lie branch of
// the quiz. Unlike real facts these may repeat for the same user.
var falseStatements = []string{
	"Великую Китайскую стену видно с Луны невооруженным глазом.",
	"Золотые рыбки помнят события только три секунды.",
	"Быков в ярость приводит именно красный цвет тряпки.",
	"Человек задействует свой мозг только на 10 процентов.",
	"Хамелеоны меняют цвет исключительно ради маскировки.",
	"В космосе абсолютно нет гравитации.",
	"Летучие мыши полностью слепы.",
}

// FalsehoodCatalog hands out random falsehoods, uniformly with replacement.
type FalsehoodCatalog struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewFalsehoodCatalog creates a catalog seeded from the clock.
func NewFalsehoodCatalog() *FalsehoodCatalog {
	return NewFalsehoodCatalogWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewFalsehoodCatalogWithSource creates a catalog with an injected randomness
// source, for deterministic tests.
func NewFalsehoodCatalogWithSource(src rand.Source) *FalsehoodCatalog {
	return &FalsehoodCatalog{rnd: rand.New(src)}
}

// RandomStatement returns one falsehood.
func (c *FalsehoodCatalog) RandomStatement() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return falseStatements[c.rnd.Intn(len(falseStatements))]
}

// Statements returns a copy of the full catalog.
func (c *FalsehoodCatalog) Statements() []string {
	out := make([]string, len(falseStatements))
	copy(out, falseStatements)
	return out
}
