package teams

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"storefront/authz"
	"storefront/db"
	"storefront/mailer"
	"storefront/models"
	"storefront/utils"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validate = validator.New()

const (
	MemberInvited = "invited"
	MemberActive  = "active"
)

// CreateTeam handles POST /api/stores/:storeid/teams.
func CreateTeam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	claims := utils.GetClaimsFromRequest(r)
	if err := authz.CanManageStore(claims, storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Team name is required")
		return
	}

	team := models.Team{
		TeamID:    "t" + utils.GenerateID(10),
		StoreID:   storeID,
		Name:      payload.Name,
		CreatedBy: claims.UserID,
		CreatedAt: time.Now(),
	}

	if _, err := db.TeamsCollection.InsertOne(ctx, team); err != nil {
		log.Println("CreateTeam InsertOne error:", err)
		http.Error(w, "Failed to create team", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, team)
}

// GetTeams handles GET /api/stores/:storeid/teams. Members are embedded
// per team.
func GetTeams(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := db.TeamsCollection.Find(ctx, bson.M{"storeId": storeID}, opts)
	if err != nil {
		log.Println("GetTeams Find error:", err)
		http.Error(w, "Failed to fetch teams", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		http.Error(w, "Error reading teams", http.StatusInternalServerError)
		return
	}

	type teamWithMembers struct {
		models.Team
		Members []models.TeamMember `json:"members"`
	}

	out := make([]teamWithMembers, 0, len(teams))
	for _, team := range teams {
		members, err := membersOf(ctx, team.TeamID)
		if err != nil {
			log.Println("GetTeams members error:", err)
			http.Error(w, "Failed to fetch team members", http.StatusInternalServerError)
			return
		}
		out = append(out, teamWithMembers{Team: team, Members: members})
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}

// InviteMember handles POST /api/stores/:storeid/teams/:teamid/members.
// An existing user joins immediately; anyone else gets an invite mail
// and an invited record.
func InviteMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	teamID := ps.ByName("teamid")
	claims := utils.GetClaimsFromRequest(r)
	if err := authz.CanManageStore(claims, storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	var payload struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	var team models.Team
	if err := db.TeamsCollection.FindOne(ctx, bson.M{"teamId": teamID, "storeId": storeID}).Decode(&team); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Team not found")
		return
	}

	count, err := db.TeamMembersCollection.CountDocuments(ctx, bson.M{"teamId": teamID, "email": payload.Email})
	if err == nil && count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Already a member of this team")
		return
	}

	member := models.TeamMember{
		TeamID:    teamID,
		Email:     payload.Email,
		Status:    MemberInvited,
		InvitedBy: claims.UserID,
		InvitedAt: time.Now(),
	}

	var user models.UserProfile
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": payload.Email}).Decode(&user); err == nil {
		member.UserID = user.UserID
		member.Status = MemberActive
	}

	if _, err := db.TeamMembersCollection.InsertOne(ctx, member); err != nil {
		log.Println("InviteMember InsertOne error:", err)
		http.Error(w, "Failed to add member", http.StatusInternalServerError)
		return
	}

	if member.Status == MemberInvited {
		subject := fmt.Sprintf("You've been invited to %s", team.Name)
		body := fmt.Sprintf("<p>You have been invited to join the team <strong>%s</strong>.</p><p>Create an account with this email address to accept.</p>", team.Name)
		mailer.SendAsync(payload.Email, subject, body)
	}

	utils.RespondWithJSON(w, http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/stores/:storeid/teams/:teamid/members/:email.
func RemoveMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	storeID := ps.ByName("storeid")
	if err := authz.CanManageStore(utils.GetClaimsFromRequest(r), storeID); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this store")
		return
	}

	res, err := db.TeamMembersCollection.DeleteOne(ctx, bson.M{
		"teamId": ps.ByName("teamid"),
		"email":  ps.ByName("email"),
	})
	if err != nil {
		log.Println("RemoveMember DeleteOne error:", err)
		http.Error(w, "Failed to remove member", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Member not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "Member removed", nil)
}

func membersOf(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	cursor, err := db.TeamMembersCollection.Find(ctx, bson.M{"teamId": teamID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	members := []models.TeamMember{}
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
