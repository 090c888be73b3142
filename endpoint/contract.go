package endpoint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	moduleContracts          = "Contracts"
	moduleContractManagement = "Contract Management"
)

var (
	errSameParty     = errors.New("seller and buyer must be different clients")
	errPartyNotFound = errors.New("seller or buyer does not exist")
	errBadStatus     = errors.New("status must be pending, active, completed or cancelled")
)

type contractRequest struct {
	SellerID        uint          `json:"sellerId" example:"1"`
	BuyerID         uint          `json:"buyerId" example:"2"`
	DeliveryAddress model.Address `json:"deliveryAddress"`
	Quantity        int           `json:"quantity" example:"100"`
	Price           float64       `json:"price" example:"1250.50"`
	Date            time.Time     `json:"date" example:"2024-05-10T00:00:00Z"`
}

func (r contractRequest) validate() error {
	if r.SellerID == 0 || r.BuyerID == 0 {
		return errors.New("sellerId and buyerId are required")
	}
	if r.SellerID == r.BuyerID {
		return errSameParty
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be greater than zero")
	}
	if r.Price <= 0 {
		return errors.New("price must be greater than zero")
	}
	if r.Date.IsZero() {
		return errors.New("date is required")
	}
	if missing := r.DeliveryAddress.Missing(); len(missing) > 0 {
		return fmt.Errorf("delivery address is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

type statusRequest struct {
	Status model.ContractStatus `json:"status" example:"active"`
}

func fetchContractByID(db *gorm.DB, id uint) (model.Contract, error) {
	var contract model.Contract
	err := db.Preload("Seller").Preload("Buyer").First(&contract, id).Error
	return contract, err
}

func partiesOf(contract model.Contract) string {
	return fmt.Sprintf("%s and %s", contract.Seller.Name, contract.Buyer.Name)
}

// ListContracts godoc
// @Summary      List contracts
// @Description  Get a paginated list of contracts with both parties, optionally filtered by status
// @Tags         Contract
// @Produce      json
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Param        status query string false "Filter by status"
// @Success      200 {object} util.APIResponse{data=[]model.Contract} "Contracts retrieved"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /contract [get]
func ListContracts(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	limit, offset := paginationParams(c, 100)

	q := db.Preload("Seller").Preload("Buyer")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var contracts []model.Contract
	if err := q.Order("date DESC").Limit(limit).Offset(offset).Find(&contracts).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve contracts", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Contracts retrieved", Data: contracts})
}

// GetContract godoc
// @Summary      Get a contract
// @Tags         Contract
// @Produce      json
// @Param        id path int true "Contract ID"
// @Success      200 {object} util.APIResponse{data=model.Contract} "Contract retrieved"
// @Failure      404 {object} util.APIResponse "Contract not found"
// @Router       /contract/{id} [get]
func GetContract(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "contract")
	if !ok {
		return
	}

	contract, err := fetchContractByID(db, id)
	if err != nil {
		respondFetchError(c, err, "contract")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Contract retrieved", Data: contract})
}

// CreateContract godoc
// @Summary      Create a contract
// @Description  Creates a pending contract between two distinct clients. The company profile must be registered first.
// @Tags         Contract
// @Accept       json
// @Produce      json
// @Param        contract body contractRequest true "Contract data"
// @Success      201 {object} util.APIResponse{data=model.Contract} "Contract created"
// @Failure      400 {object} util.APIResponse "Invalid data"
// @Failure      500 {object} util.APIResponse "Server error"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /contract [post]
func CreateContract(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	var req contractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}
	if err := req.validate(); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid contract data", Err: err})
		return
	}

	if _, err := loadCompany(db); err != nil {
		if errors.Is(err, errNoCompany) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Register the company profile before creating contracts", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve company", Err: err})
		return
	}

	var parties int64
	if err := db.Model(&model.Client{}).Where("id IN ?", []uint{req.SellerID, req.BuyerID}).Count(&parties).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to check clients", Err: err})
		return
	}
	if parties != 2 {
		util.CallUserError(c, util.APIErrorParams{Msg: "Seller and buyer must be registered clients", Err: errPartyNotFound})
		return
	}

	contract := model.Contract{
		SellerID:        req.SellerID,
		BuyerID:         req.BuyerID,
		DeliveryAddress: req.DeliveryAddress,
		Quantity:        req.Quantity,
		Price:           req.Price,
		Date:            req.Date,
		Status:          model.ContractPending,
	}
	if err := db.Omit("Seller", "Buyer").Create(&contract).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create contract", Err: err})
		return
	}

	created, err := fetchContractByID(db, contract.ID)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load contract", Err: err})
		return
	}

	recordAction(c, moduleContracts, "Contract Creation",
		fmt.Sprintf("Contract created between %s", partiesOf(created)), audit.ResultSuccess)
	util.CallCreated(c, util.APISuccessParams{Msg: "Contract created", Data: created})
}

// UpdateContractStatus godoc
// @Summary      Change the status of a contract
// @Tags         Contract
// @Accept       json
// @Produce      json
// @Param        id path int true "Contract ID"
// @Param        status body statusRequest true "New status"
// @Success      200 {object} util.APIResponse{data=model.Contract} "Status updated"
// @Failure      400 {object} util.APIResponse "Invalid status"
// @Failure      404 {object} util.APIResponse "Contract not found"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /contract/{id}/status [patch]
func UpdateContractStatus(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "contract")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}
	if !req.Status.Valid() {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid contract status", Err: errBadStatus})
		return
	}

	contract, err := fetchContractByID(db, id)
	if err != nil {
		respondFetchError(c, err, "contract")
		return
	}

	if err := db.Model(&model.Contract{}).Where("id = ?", contract.ID).Update("status", req.Status).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update status", Err: err})
		return
	}
	contract.Status = req.Status

	recordAction(c, moduleContractManagement, "Status Update",
		fmt.Sprintf("Status of contract between %s changed to %s", partiesOf(contract), req.Status), audit.ResultSuccess)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Status updated", Data: contract})
}

// DeleteContract godoc
// @Summary      Remove a contract
// @Tags         Contract
// @Produce      json
// @Param        id path int true "Contract ID"
// @Success      200 {object} util.APIResponse "Contract removed"
// @Failure      404 {object} util.APIResponse "Contract not found"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /contract/{id} [delete]
func DeleteContract(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}
	id, ok := getIDParam(c, "contract")
	if !ok {
		return
	}

	contract, err := fetchContractByID(db, id)
	if err != nil {
		respondFetchError(c, err, "contract")
		return
	}
	if err := db.Unscoped().Delete(&model.Contract{}, contract.ID).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to remove contract", Err: err})
		return
	}

	recordAction(c, moduleContractManagement, "Contract Deletion",
		fmt.Sprintf("Contract between %s removed", partiesOf(contract)), audit.ResultSuccess)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Contract removed", Data: map[string]interface{}{"id": id}})
}
