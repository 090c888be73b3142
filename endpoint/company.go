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

const moduleCompany = "Company"

var errNoCompany = errors.New("company profile not registered")

type companyRequest struct {
	Name     string         `json:"name" example:"Café Corretora Ltda"`
	CNPJ     string         `json:"cnpj" example:"12.345.678/0001-90"`
	Address  model.Address  `json:"address"`
	BankInfo model.BankInfo `json:"bankInfo"`
}

func (r companyRequest) validate() error {
	if r.Name == "" || r.CNPJ == "" {
		return errors.New("name and cnpj are required")
	}
	if missing := r.Address.Missing(); len(missing) > 0 {
		return fmt.Errorf("address is missing %s", strings.Join(missing, ", "))
	}
	if !r.BankInfo.Valid() {
		return errors.New("bank info requires bankName, accountNumber, branch and accountType checking or savings")
	}
	return nil
}

// loadCompany returns the single company profile, or errNoCompany.
func loadCompany(db *gorm.DB) (model.Company, error) {
	var company model.Company
	err := db.Order("id").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return company, errNoCompany
	}
	return company, err
}

// GetCompany godoc
// @Summary      Get the company profile
// @Tags         Company
// @Produce      json
// @Success      200 {object} util.APIResponse{data=model.Company} "Company retrieved"
// @Failure      404 {object} util.APIResponse "Company not registered"
// @Router       /company [get]
func GetCompany(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	company, err := loadCompany(db)
	if errors.Is(err, errNoCompany) {
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Company not registered", Err: err})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve company", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Company retrieved", Data: company})
}

// SaveCompany godoc
// @Summary      Register or update the company profile
// @Tags         Company
// @Accept       json
// @Produce      json
// @Param        company body companyRequest true "Company data"
// @Success      200 {object} util.APIResponse{data=model.Company} "Company saved"
// @Failure      400 {object} util.APIResponse "Invalid data"
// @Failure      429 {object} util.APIResponse "Too many writes"
// @Router       /company [put]
func SaveCompany(c *gin.Context) {
	db, ok := ensureDB(c)
	if !ok {
		return
	}

	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid request body", Err: err})
		return
	}
	req.Name = util.NormalizeName(req.Name)
	req.CNPJ = strings.TrimSpace(req.CNPJ)
	if err := req.validate(); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid company data", Err: err})
		return
	}

	company, err := loadCompany(db)
	exists := err == nil
	if err != nil && !errors.Is(err, errNoCompany) {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve company", Err: err})
		return
	}

	company.Name = req.Name
	company.CNPJ = req.CNPJ
	company.Address = req.Address
	company.BankInfo = req.BankInfo
	if err := db.Save(&company).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to save company", Err: err})
		return
	}

	if exists {
		recordAction(c, moduleCompany, "Company Update", fmt.Sprintf("Company %s updated", company.Name), audit.ResultSuccess)
	} else {
		recordAction(c, moduleCompany, "Company Registration", fmt.Sprintf("Company %s registered", company.Name), audit.ResultSuccess)
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Company saved", Data: company})
}
