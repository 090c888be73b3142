package endpoint

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"text/template"

	"github.com/ariebrainware/coffee-brokerage/audit"
	"github.com/ariebrainware/coffee-brokerage/model"
	"github.com/ariebrainware/coffee-brokerage/util"
	"github.com/gin-gonic/gin"
)

var contractTemplate = template.Must(template.New("contract").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("R$ %.2f", v) },
	"date":  func(c model.Contract) string { return c.Date.Format("02/01/2006") },
}).Parse(`COFFEE PURCHASE AND SALE CONTRACT
Contract no. {{.Contract.ID}}    Date: {{date .Contract}}    Status: {{.Contract.Status}}

BROKER
  {{.Company.Name}} (CNPJ {{.Company.CNPJ}})
  {{.Company.Address}}

SELLER
  {{.Contract.Seller.Name}} (CPF {{.Contract.Seller.CPF}})
  Warehouse: {{.Contract.Seller.WarehouseAddress}}
  Bank: {{.Contract.Seller.BankInfo.BankName}}, branch {{.Contract.Seller.BankInfo.Branch}}, {{.Contract.Seller.BankInfo.AccountType}} account {{.Contract.Seller.BankInfo.AccountNumber}}

BUYER
  {{.Contract.Buyer.Name}} (CPF {{.Contract.Buyer.CPF}})

OBJECT
  {{.Contract.Quantity}} sacks of coffee at {{money .Contract.Price}} per sack
  Total: {{money .Contract.Total}}

DELIVERY
  {{.Contract.DeliveryAddress}}
`))

type contractDocument struct {
	Contract model.Contract
	Company  model.Company
}

// RenderContract writes the plain-text contract document.
func RenderContract(contract model.Contract, company model.Company) ([]byte, error) {
	var buf bytes.Buffer
	if err := contractTemplate.Execute(&buf, contractDocument{Contract: contract, Company: company}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContractDocument godoc
// @Summary      Export a contract document
// @Description  Renders the contract as plain text with both parties, the broker and the seller's bank data
// @Tags         Contract
// @Produce      plain
// @Param        id path int true "Contract ID"
// @Success      200 {string} string "Contract document"
// @Failure      400 {object} util.APIResponse "Company not registered"
// @Failure      404 {object} util.APIResponse "Contract not found"
// @Router       /contract/{id}/document [get]
func ContractDocument(c *gin.Context) {
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
	company, err := loadCompany(db)
	if err != nil {
		if errors.Is(err, errNoCompany) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Company not registered", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve company", Err: err})
		return
	}

	doc, err := RenderContract(contract, company)
	if err != nil {
		recordAction(c, moduleContracts, "Contract Export",
			fmt.Sprintf("Export of contract between %s failed", partiesOf(contract)), audit.ResultError)
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to render contract", Err: err})
		return
	}

	recordAction(c, moduleContracts, "Contract Export",
		fmt.Sprintf("Contract between %s exported", partiesOf(contract)), audit.ResultSuccess)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="contract-%d.txt"`, contract.ID))
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(doc)
}
