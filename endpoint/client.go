package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const moduleClients = "Clients"

var (
	errDuplicateCPF = errors.New("cpf already registered")
	errClientInUse  = errors.New("client is a party to existing contracts")
)

type clientRequest struct {
	Name             string         `json:"name" example:"João Silva"`
	CPF              string         `json:"cpf" example:"123.456.789-00"`
	BankInfo         model.BankInfo `json:"bankInfo"`
	WarehouseAddress model.Address  `json:"warehouseAddress"`
}

func (r *clientRequest) normalize() {
	r.Name = util.NormalizeName(r.Name)
	r.CPF = strings.TrimSpace(r.CPF)
}

func (r clientRequest) validate() error {
	if r.Name == "" || r.CPF == "" {
		return errors.New("name and cpf are required")
	}
	if !r.BankInfo.Valid() {
		return errors.New("bank info requires bankName, accountNumber, branch and accountType checking or savings")
	}
	if missing := r.WarehouseAddress.Missing(); len(missing) > 0 {
		return fmt.Errorf("warehouse address is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r clientRequest) apply(c *model.Client) {
	c.Name = r.Name
	c.CPF = r.CPF
	c.BankInfo = r.BankInfo
	c.WarehouseAddress = r.WarehouseAddress
}

// helper: check whether another client already holds the CPF
func cpfTaken(db *gorm.DB, cpf string, exceptID uint) (bool, error) {
	var count int64
	q := db.Model(&model.Client{}).Where("cpf = ?", cpf)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func fetchClientByID(db *gorm.DB, id uint) (model.Client, error) {
	var client model.Client
	err := db.First(&client, id).Error
	return client, err
}

// helper: bind and validate a client body, responding on failure
func bindClientRequest(c *gin.Context) (clientRequest, bool) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return req, false
	}
	req.normalize()
	if err := req.validate(); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid client data", Err: err})
		return req, false
	}
	return req, true
}

// ListClients godoc
// @Summary      List clients
// @Description  Get a paginated list of clients, optionally filtered by name or CPF
// @Tags         Client
// @Produce      json
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Param        keyword query string false "Search by name or CPF"
// @Success      200 {object} util.APIResponse{data=[]model.Client} "Clients retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /client [get]
func ListClients(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	limit, offset := paginationParams(c, 100)

	q := db.Model(&model.Client{})
	if kw := strings.TrimSpace(c.Query("keyword")); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where("LOWER(name) LIKE ? OR cpf LIKE ?", like, like)
	}

	var clients []model.Client
	if err := q.Order("name").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve clients", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Clients retrieved", Data: clients})
}

// GetClient godoc
// @Summary      Get a client
// @Tags         Client
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} util.APIResponse{data=model.Client} "Client retrieved"
// @Failure      400 {object} util.APIResponse "Invalid ID"
// @Failure      404 {object} util.APIResponse "Client not found"
// @Router       /client/{id} [get]
func GetClient(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "client")
	if !ok {
		return
	}

	client, err := fetchClientByID(db, id)
	if err != nil {
		respondFetchError(c, err, "client")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Client retrieved", Data: client})
}

// CreateClient godoc
// @Summary      Register a client
// @Description  Registers a client. A CPF can only be registered once.
// @Tags         Client
// @Accept       json
// @Produce      json
// @Param        client body clientRequest true "Client data"
// @Success      201 {object} util.APIResponse{data=model.Client} "Client registered"
// @Failure      400 {object} util.APIResponse "Invalid data or duplicate CPF"
// @Failure      500 {object} util.APIResponse "Server error"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /client [post]
func CreateClient(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	req, ok := bindClientRequest(c)
	if !ok {
		return
	}

	taken, err := cpfTaken(db, req.CPF, 0)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check CPF", Err: err})
		return
	}
	if taken {
		recordAction(c, moduleClients, "Client Registration",
			fmt.Sprintf("Registration of client %s rejected: CPF %s already registered", req.Name, req.CPF), audit.ResultError)
		util.CallUserError(c, util.APIErrorParams{Msg: "A client with this CPF already exists", Err: errDuplicateCPF})
		return
	}

	var client model.Client
	req.apply(&client)
	if err := db.Create(&client).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to register client", Err: err})
		return
	}

	recordAction(c, moduleClients, "Client Registration",
		fmt.Sprintf("Client %s registered successfully", client.Name), audit.ResultSuccess)
	util.CallCreated(c, util.APISuccessParams{Msg: "Client registered", Data: client})
}

// UpdateClient godoc
// @Summary      Update a client
// @Tags         Client
// @Accept       json
// @Produce      json
// @Param        id path int true "Client ID"
// @Param        client body clientRequest true "Client data"
// @Success      200 {object} util.APIResponse{data=model.Client} "Client updated"
// @Failure      400 {object} util.APIResponse "Invalid data or duplicate CPF"
// @Failure      404 {object} util.APIResponse "Client not found"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /client/{id} [put]
func UpdateClient(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "client")
	if !ok {
		return
	}
	req, ok := bindClientRequest(c)
	if !ok {
		return
	}

	client, err := fetchClientByID(db, id)
	if err != nil {
		respondFetchError(c, err, "client")
		return
	}

	taken, err := cpfTaken(db, req.CPF, client.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check CPF", Err: err})
		return
	}
	if taken {
		recordAction(c, moduleClients, "Client Update",
			fmt.Sprintf("Update of client %s rejected: CPF %s already registered", client.Name, req.CPF), audit.ResultError)
		util.CallUserError(c, util.APIErrorParams{Msg: "A client with this CPF already exists", Err: errDuplicateCPF})
		return
	}

	req.apply(&client)
	if err := db.Save(&client).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update client", Err: err})
		return
	}

	recordAction(c, moduleClients, "Client Update", fmt.Sprintf("Client %s updated", client.Name), audit.ResultSuccess)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Client updated", Data: client})
}

// DeleteClient godoc
// @Summary      Remove a client
// @Description  Removes a client that is not a party to any contract.
// @Tags         Client
// @Produce      json
// @Param        id path int true "Client ID"
// @Success      200 {object} util.APIResponse "Client removed"
// @Failure      400 {object} util.APIResponse "Client has contracts"
// @Failure      404 {object} util.APIResponse "Client not found"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /client/{id} [delete]
func DeleteClient(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "client")
	if !ok {
		return
	}

	client, err := fetchClientByID(db, id)
	if err != nil {
		respondFetchError(c, err, "client")
		return
	}

	var contracts int64
	if err := db.Model(&model.Contract{}).Where("seller_id = ? OR buyer_id = ?", id, id).Count(&contracts).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check contracts", Err: err})
		return
	}
	if contracts > 0 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Client cannot be removed while it has contracts", Err: errClientInUse})
		return
	}

	// Hard delete so the CPF can be registered again.
	if err := db.Unscoped().Delete(&client).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to remove client", Err: err})
		return
	}

	recordAction(c, moduleClients, "Client Deletion", fmt.Sprintf("Client %s removed", client.Name), audit.ResultSuccess)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Client removed", Data: map[string]interface{}{"id": id}})
}

// helper: map a lookup error to 404 or 500
func respondFetchError(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: fmt.Sprintf("%s%s not found", strings.ToUpper(what[:1]), what[1:]),
			Err: err,
		})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: fmt.Sprintf("Failed to retrieve %s", what), Err: err})
}
