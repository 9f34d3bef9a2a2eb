package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("resources")

		collection.Fields.Add(
			&core.SelectField{
				Name:      "kind",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"desk", "room"},
			},
			&core.TextField{
				Name: "location",
			},
			&core.TextField{
				Name: "desk_family",
			},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("resources")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
