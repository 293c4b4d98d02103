/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/kstoi/arbor/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
Metadata holds the features declared on a metadata document, in the order
they were declared, and the name of the label feature if one was given.
*/
type Metadata struct {
	Features []feature.Feature
	Label    string
}

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns the metadata parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'continuous' for continuous features or a list of valid values
for discrete features (an empty list or the string 'discrete' accepts any value).
An optional label property names the feature trees should predict.
*/
func ReadFeatures(md []byte) (*Metadata, error) {
	metadata := struct {
		Features yaml.MapSlice `yaml:"features"`
		Label    string        `yaml:"label"`
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	result := &Metadata{Label: metadata.Label}
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case string:
			switch values {
			case "continuous", "numeric":
				result.Features = append(result.Features, feature.NewContinuousFeature(fn))
			case "discrete", "categorical":
				result.Features = append(result.Features, feature.NewDiscreteFeature(fn, nil))
			default:
				return nil, fmt.Errorf("invalid kind %q for feature %s", values, fn)
			}
		case []interface{}:
			stringVs := []string{}
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			result.Features = append(result.Features, feature.NewDiscreteFeature(fn, stringVs))
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T for feature %s", item.Value, fn)
		}
	}
	if result.Label != "" && result.Feature(result.Label) == nil {
		return nil, fmt.Errorf("label %s is not a declared feature", result.Label)
	}
	return result, nil
}

/*
ReadFeaturesFromFile takes a filepath string, reads its contents and uses
ReadFeatures to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadFeaturesFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	metadata, err := ReadFeatures(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return metadata, err
}

/*
Feature returns the declared feature with the given name or nil
*/
func (m *Metadata) Feature(name string) feature.Feature {
	for _, f := range m.Features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
