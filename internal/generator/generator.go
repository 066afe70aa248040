// Package generator produces synthetic demo customers for seeding the
// onboarding store. This is demo-record generation only; the model's
// training set has its own generator inside the scoring package.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/priyamehta/cddrisk/internal/domain"
	"github.com/priyamehta/cddrisk/internal/service"
)

// Dataset contains the generated customer inputs.
type Dataset struct {
	Customers []service.CustomerInput `json:"customers"`
}

// Generator produces synthetic customers over the fixed attribute
// enumerations.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumCustomers <= 0 {
		cfg.NumCustomers = DefaultConfig().NumCustomers
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises customer inputs. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	customers := make([]service.CustomerInput, g.cfg.NumCustomers)
	seenNames := make(map[string]struct{}, g.cfg.NumCustomers)

	for i := 0; i < g.cfg.NumCustomers; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		first, last := g.uniqueName(seenNames)
		customers[i] = service.CustomerInput{
			FirstName:                 first,
			Surname:                   last,
			ResidenceCountry:          g.pick(domain.ResidenceCountries),
			CustomerType:              g.pick(domain.CustomerTypes),
			Occupation:                g.pick(domain.Occupations),
			TimeAtAddress:             g.pick(domain.TimeAtAddressOptions),
			StreetAddress:             g.randomStreet(),
			City:                      g.pick(g.nameFragments.cities),
			State:                     g.pick(g.nameFragments.states),
			PostalCode:                fmt.Sprintf("%04d", g.rand.Intn(9999)+1),
			IncomeSource:              g.pick(domain.IncomeSources),
			IncomeComments:            g.pick(g.nameFragments.incomeComments),
			ExpectedTransactionVolume: g.pick(g.nameFragments.volumes),
		}
	}

	return Dataset{Customers: customers}, nil
}

// uniqueName avoids duplicate first+surname pairs, which would collide on
// the derived customer ID.
func (g *Generator) uniqueName(seen map[string]struct{}) (string, string) {
	for {
		first := g.pick(g.nameFragments.first)
		last := g.pick(g.nameFragments.last)
		key := first + "|" + last
		if _, exists := seen[key]; !exists {
			seen[key] = struct{}{}
			return first, last
		}
	}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rand.Intn(len(pool))]
}

func (g *Generator) randomStreet() string {
	return fmt.Sprintf("%d %s %s", g.rand.Intn(9999)+1,
		g.pick(g.nameFragments.streetNames),
		g.pick(g.nameFragments.streetSuffix))
}

type nameFragments struct {
	first          []string
	last           []string
	streetNames    []string
	streetSuffix   []string
	cities         []string
	states         []string
	volumes        []string
	incomeComments []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:        []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:         []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		streetNames:  []string{"Market", "Mission", "Broadway", "Fifth", "Sunset", "Park", "Cedar", "Oak", "Pine", "Ash"},
		streetSuffix: []string{"St", "Ave", "Blvd", "Ln", "Rd", "Way"},
		cities:       []string{"Sydney", "Melbourne", "New York", "Shanghai", "Moscow", "Georgetown", "Brisbane", "Perth"},
		states:       []string{"NSW", "VIC", "QLD", "WA", "NY", "CA"},
		volumes: []string{
			"Less than $5,000",
			"$5,000 - $20,000",
			"$20,000 - $50,000",
			"More than $50,000",
		},
		incomeComments: []string{
			"Customer claims income from freelance work and occasional consulting.",
			"Salary paid monthly by a large listed employer, verified via payslips.",
			"Director of a family import business, income varies with trading season.",
			"Recently inherited a property portfolio, rental income expected.",
			"Pension plus modest dividend income from a retail share portfolio.",
			"Cash-intensive market stall, customer could not name regular buyers.",
			"Income from overseas consulting clients, paid through multiple accounts.",
		},
	}
}
