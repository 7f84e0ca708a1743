package memzone_test

import (
	"errors"
	"fmt"

	"github.com/hupe1980/memzone"
)

func Example() {
	store := memzone.New()
	defer store.Close()

	// Persistent vocabulary lives in frame 0 and never expires.
	dog, _ := store.Intern("dog")

	// Request-scoped entries live and die with a zone.
	var cat memzone.Handle
	_ = store.WithZone(func(z *memzone.Zone) error {
		var err error
		cat, err = z.Intern("cat")
		if err != nil {
			return err
		}

		e, _ := store.Resolve(cat)
		fmt.Println("inside zone:", e.Text)
		return nil
	})

	// The persistent handle survives the zone.
	e, _ := store.Resolve(dog)
	fmt.Println("after zone:", e.Text)

	// The zone-scoped handle is permanently invalid.
	if _, err := store.Resolve(cat); errors.Is(err, memzone.ErrStaleReference) {
		fmt.Println("after zone: cat is stale")
	}

	// Output:
	// inside zone: cat
	// after zone: dog
	// after zone: cat is stale
}

func Example_transientAttributes() {
	store := memzone.New()
	defer store.Close()

	doc := memzone.NewDoc("some text")
	doc.SetAttr("tensor", make([]float32, 4096))

	// A downstream cleanup stage releases oversized values once consumed,
	// independent of any zone.
	cleaner := memzone.NewCleaner("tensor")
	cleaner.Clean(doc)

	_, ok := doc.GetAttr("tensor")
	fmt.Println("tensor present:", ok)

	// Output:
	// tensor present: false
}
