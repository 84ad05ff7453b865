package handlers_test

import (
	"net/http"

	"github.com/ludicboard/ludicboard-api/internal/dto"
	"github.com/ludicboard/ludicboard-api/internal/models"
	"github.com/ludicboard/ludicboard-api/internal/testutil"
)

func (s *APITestSuite) TestSearch_ShortQueryIsEmpty() {
	f := s.newFixture()

	for _, q := range []string{"a", "%20a%20", ""} {
		w := s.do(http.MethodGet, "/search?query="+q, nil, f.owner.ID)
		s.Require().Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"tasks":[],"projects":[],"users":[]}`, w.Body.String())
	}
}

func (s *APITestSuite) TestSearch_RanksPrefixAboveContains() {
	f := s.newFixture()
	s.Require().NoError(s.db.Create(&models.Project{Name: "Roadmap", Description: "next proj"}).Error)
	other := &models.Project{Name: "Side", Description: "a proj for later"}
	s.Require().NoError(s.db.Create(other).Error)
	testutil.AddMember(s.T(), s.db, other.ID, f.owner.ID, models.RoleMember)

	w := s.do(http.MethodGet, "/search?query=proj", nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.SearchResponse
	s.decode(w, &resp)

	// "Roadmap" matches too but the owner is not a member of it.
	s.Require().Len(resp.Projects, 2)
	s.Equal("Project Alpha", resp.Projects[0].Name)
	s.Equal("Side", resp.Projects[1].Name)

	again := s.do(http.MethodGet, "/search?query=proj", nil, f.owner.ID)
	s.Equal(w.Body.String(), again.Body.String())
}

func (s *APITestSuite) TestSearch_UsersUnscoped() {
	f := s.newFixture()

	w := s.do(http.MethodGet, "/search?query=OUTSIDER", nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.SearchResponse
	s.decode(w, &resp)
	s.Require().Len(resp.Users, 1)
	s.Equal(f.outsider.ID, resp.Users[0].UserID)
	s.Empty(resp.Users[0].Email)
}

func (s *APITestSuite) TestListUsersAndTeams() {
	f := s.newFixture()
	s.Require().NoError(s.db.Create(&models.Team{TeamName: "Core", ProductOwnerUserID: &f.owner.ID}).Error)

	w := s.do(http.MethodGet, "/users?page=1&limit=2", nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	var users dto.UserListResponse
	s.decode(w, &users)
	s.Len(users.Users, 2)
	s.Equal(int64(5), users.Pagination.Total)
	s.Equal(int64(3), users.Pagination.TotalPages)

	w = s.do(http.MethodGet, "/teams", nil, f.owner.ID)
	s.Require().Equal(http.StatusOK, w.Code)
	var teams []dto.TeamDTO
	s.decode(w, &teams)
	s.Require().Len(teams, 1)
	s.Require().NotNil(teams[0].ProductOwnerUsername)
	s.Equal("owner", *teams[0].ProductOwnerUsername)

	w = s.do(http.MethodGet, "/teams", nil, 0)
	s.Equal(http.StatusUnauthorized, w.Code)
}
