package handler

// --- Request types ---

type orderItemRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=200"`
	Amount      int     `json:"amount"      validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED IN_PROGRESS COMPLETED CANCELLED"`
}
