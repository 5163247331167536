// pkg/build/describe.go
package build

import (
	"fmt"
	"strings"

	"github.com/arc-language/layerslim/pkg/distinfo"
	"github.com/arc-language/layerslim/pkg/layout"
)

// Description is the human-readable summary published with a layer
func Description(services []string, versions distinfo.Versions) string {
	var d string
	if len(services) > 0 {
		d = fmt.Sprintf("Boto3 and botocore stripped down to only %s.", strings.Join(services, ","))
	} else {
		d = "Boto3 and botocore stripped of docs."
	}
	return d + " " + versions.String()
}

// LayerName is the published layer version name
func LayerName(name, boto3Version string) string {
	return fmt.Sprintf("%s_boto3_%s", name, layout.Target(boto3Version))
}

// ParameterName is the parameter path a layer's ARN is published under
func ParameterName(runtime, name, boto3Version string) string {
	return fmt.Sprintf("/layers/%s/boto3/%s/%s", runtime, layout.Target(boto3Version), name)
}
