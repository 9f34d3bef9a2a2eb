package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("office_users")

		collection.Fields.Add(
			&core.TextField{
				Name:     "name",
				Required: true,
			},
			&core.EmailField{
				Name: "email",
			},
			&core.NumberField{
				Name:    "karma_points",
				OnlyInt: true,
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("office_users")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
