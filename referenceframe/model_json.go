package referenceframe

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/grooveik/spatialmath"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name string        `json:"name"`
	Arms []ChainConfig `json:"arms"`
}

// ChainConfig describes one serial arm.
type ChainConfig struct {
	Name   string        `json:"name"`
	Base   *PoseConfig   `json:"base,omitempty"`
	Joints []JointConfig `json:"joints"`
	Tool   *PoseConfig   `json:"tool,omitempty"`
}

// JointConfig describes one joint. Min and Max are radians for revolute joints and length units for prismatic
// ones. Offset places the joint relative to the previous frame of the chain.
type JointConfig struct {
	ID     string      `json:"id"`
	Type   string      `json:"type"`
	Axis   r3.Vector   `json:"axis"`
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	Offset *PoseConfig `json:"offset,omitempty"`
}

// PoseConfig is a translation and optional orientation.
type PoseConfig struct {
	Translation r3.Vector                  `json:"translation"`
	Orientation spatialmath.RawOrientation `json:"orientation"`
}

// ParseConfig converts the PoseConfig into a Pose.
func (pc *PoseConfig) ParseConfig() (spatialmath.Pose, error) {
	if pc == nil {
		return nil, nil
	}
	o, err := spatialmath.ParseOrientation(pc.Orientation)
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(pc.Translation, o), nil
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*SerialChain, error) {
	// empty data probably means that the robot has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a SerialChain with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*SerialChain, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	chains := make([]Chain, 0, len(cfg.Arms))
	for _, arm := range cfg.Arms {
		base, err := arm.Base.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "arm %q base", arm.Name)
		}
		tool, err := arm.Tool.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "arm %q tool", arm.Name)
		}
		chain := Chain{Name: arm.Name, Base: base, Tool: tool}
		for _, jc := range arm.Joints {
			offset, err := jc.Offset.ParseConfig()
			if err != nil {
				return nil, errors.Wrapf(err, "joint %q offset", jc.ID)
			}
			chain.Joints = append(chain.Joints, Joint{
				ID:     jc.ID,
				Type:   JointType(jc.Type),
				Axis:   jc.Axis,
				Limit:  Limit{Min: jc.Min, Max: jc.Max},
				Offset: offset,
			})
		}
		chains = append(chains, chain)
	}
	return NewSerialChain(modelName, chains...)
}
