package request_models

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"healwise/internal/models/db_models"
)

var registerOnce sync.Once

// RegisterValidators installs the moduletype, recipetype and tier tags on gin's validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		rules := map[string]validator.Func{
			"moduletype": func(fl validator.FieldLevel) bool {
				return db_models.ModuleType(fl.Field().String()).Valid()
			},
			"recipetype": func(fl validator.FieldLevel) bool {
				return db_models.RecipeType(fl.Field().String()).Valid()
			},
			"tier": func(fl validator.FieldLevel) bool {
				return db_models.SubscriptionTier(fl.Field().String()).Valid()
			},
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
