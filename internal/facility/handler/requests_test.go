package handler

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CreateFacilityRequestSuite struct {
	suite.Suite
}

func TestCreateFacilityRequestSuite(t *testing.T) {
	suite.Run(t, new(CreateFacilityRequestSuite))
}

func (s *CreateFacilityRequestSuite) TestNormalizeAndValidate() {
	s.Run("normalises code case and whitespace", func() {
		req := &CreateFacilityRequest{Code: " kbth ", Name: " Korle Bu "}
		req.Normalize()
		s.Equal("KBTH", req.Code)
		s.Equal("Korle Bu", req.Name)
		s.NoError(req.Validate())
	})

	s.Run("negative reorder level rejected", func() {
		req := &CreateFacilityRequest{Code: "KBTH", Name: "Korle Bu", DefaultReorderLevel: -1}
		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "default_reorder_level")
	})
}
