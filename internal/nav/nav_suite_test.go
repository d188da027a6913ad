package nav

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestNavSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Nav Suite")
}
