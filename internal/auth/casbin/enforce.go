package casbin

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/casbin/casbin/v2/util"
)

// NewEnforcer loads the capability matrix from the model and policy files.
// Roles inherit through g entries (admin covers authenticated, authenticated
// covers anonymous).
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load casbin model %s: %w", modelPath, err)
	}

	a := fileadapter.NewAdapter(policyPath)

	e, err := casbin.NewEnforcer(m, a)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	e.AddFunction("keyMatch2", func(args ...interface{}) (interface{}, error) {
		key1 := args[0].(string)
		key2 := args[1].(string)
		return util.KeyMatch2(key1, key2), nil
	})

	if err := e.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load casbin policy %s: %w", policyPath, err)
	}

	return e, nil
}
