package b2b

import "github.com/ServiLut/tote-bag/internal/domain/b2b"

// CreateQuoteRequest is the multipart form of POST /b2b/quote
type CreateQuoteRequest struct {
	BusinessName string       `form:"businessName" json:"businessName" binding:"required,max=200"`
	Quantity     int          `form:"quantity" json:"quantity" binding:"required,min=1"`
	Department   string       `form:"department" json:"department" binding:"required,max=100"`
	Municipality string       `form:"municipality" json:"municipality" binding:"required,max=100"`
	Neighborhood string       `form:"neighborhood" json:"neighborhood" binding:"required,max=150"`
	Address      string       `form:"address" json:"address" binding:"required,max=300"`
	ContactPhone string       `form:"contactPhone" json:"contactPhone" binding:"required,max=30"`
	QrType       b2b.QrType   `form:"qrType" json:"qrType" binding:"required,oneof=WHATSAPP WEB INSTAGRAM"`
	QrData       string       `form:"qrData" json:"qrData" binding:"required,max=500"`
	Package      *b2b.Package `form:"package" json:"package" binding:"omitempty,oneof=Starter Pro Evento"`
}

func (r CreateQuoteRequest) request() b2b.Request {
	return b2b.Request{
		BusinessName: r.BusinessName,
		Quantity:     r.Quantity,
		Department:   r.Department,
		Municipality: r.Municipality,
		Neighborhood: r.Neighborhood,
		Address:      r.Address,
		ContactPhone: r.ContactPhone,
		QrType:       r.QrType,
		QrData:       r.QrData,
		Package:      r.Package,
	}
}

// Logo is an uploaded logo file
type Logo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// WhatsAppPayload is the prefilled chat the client opens after intake
type WhatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateQuoteResponse is returned by quote intake
type CreateQuoteResponse struct {
	Success         bool            `json:"success"`
	Quote           *b2b.Quote      `json:"quote"`
	WhatsAppPayload WhatsAppPayload `json:"whatsappPayload"`
}
