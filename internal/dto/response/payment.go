package response

// InitiatePaymentResponse and VerifyPaymentResponse are written without the
// usual envelope; clients of the payment endpoints read these keys directly.
type InitiatePaymentResponse struct {
	Status        string `json:"status"`
	CheckoutURL   string `json:"checkout_url"`
	TransactionID string `json:"transaction_id"`
}

type VerifyPaymentResponse struct {
	Status string `json:"status"`
}

type PaymentErrorResponse struct {
	Error string `json:"error"`
}
