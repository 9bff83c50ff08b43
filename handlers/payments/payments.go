package payments

import (
	"gorm.io/gorm"

	"github.com/perejack/canadaman/swiftpay"
	"github.com/perejack/canadaman/utils"
)

// DefaultAmount is charged when the client does not name one (the
// account-verification fee).
const DefaultAmount = 250

// Handler bundles the dependencies of the payment endpoints. All state
// is injected; the package keeps no globals.
type Handler struct {
	DB           *gorm.DB
	Gateway      swiftpay.Gateway
	JWTSecret    []byte
	AdminToken   string
	IsProduction bool
	Mailer       utils.Mailer
	Wati         utils.WatiNotifier
}

func NewHandler(db *gorm.DB, gateway swiftpay.Gateway) *Handler {
	return &Handler{DB: db, Gateway: gateway}
}
