package graphqlclient

// Fragments shared by the operations below
const (
	productFragment = `
fragment ProductFields on Product {
  id
  name
  description
  price
  imageUrl
  available
  preparationTime
  restaurantId
  category {
    id
    name
    description
  }
  variants {
    size
    price
    imageUrl
  }
}`

	orderFragment = `
fragment OrderFields on Order {
  id
  restaurantId
  total
  status
  paymentMethod
  deliveryMethod
  mesa
  deliveryAddress
  createdAt
  updatedAt
  customer {
    name
    phone
    email
  }
  products {
    id
    name
    quantity
    price
    total
  }
}`

	categoryFragment = `
fragment CategoryFields on Category {
  id
  name
  description
}`
)

// Queries
const (
	QueryGetProducts = productFragment + `
query GetProducts($restaurantId: String!) {
  products(restaurantId: $restaurantId) {
    ...ProductFields
  }
}`

	QueryGetProduct = productFragment + `
query GetProduct($productId: String!) {
  product(productId: $productId) {
    ...ProductFields
  }
}`

	QuerySearchProducts = productFragment + `
query SearchProducts($restaurantId: String!, $searchTerm: String!) {
  searchProducts(restaurantId: $restaurantId, searchTerm: $searchTerm) {
    ...ProductFields
  }
}`

	QueryGetCategories = categoryFragment + `
query GetCategories($restaurantId: String!) {
  categories(restaurantId: $restaurantId) {
    ...CategoryFields
  }
}`

	QueryGetOrders = orderFragment + `
query GetOrders($restaurantId: String!, $status: String, $limit: Int) {
  orders(restaurantId: $restaurantId, status: $status, limit: $limit) {
    ...OrderFields
  }
}`

	QueryGetOrder = orderFragment + `
query GetOrder($orderId: String!) {
  order(orderId: $orderId) {
    ...OrderFields
  }
}`

	QueryGetRestaurantStats = `
query GetRestaurantStats($restaurantId: String!) {
  restaurantStats(restaurantId: $restaurantId) {
    restaurantId
    totalOrders
    totalRevenue
    pendingOrders
    preparingOrders
    statusBreakdown
  }
}`
)

// Mutations
const (
	MutationCreateProduct = `
mutation CreateProduct($input: CreateProductInput!) {
  createProduct(productInput: $input) {
    success
    message
    id
  }
}`

	MutationUpdateProduct = `
mutation UpdateProduct($productId: String!, $input: UpdateProductInput!) {
  updateProduct(productId: $productId, productInput: $input) {
    success
    message
    id
  }
}`

	MutationDeleteProduct = `
mutation DeleteProduct($productId: String!) {
  deleteProduct(productId: $productId) {
    success
    message
  }
}`

	MutationCreateOrder = `
mutation CreateOrder($input: CreateOrderInput!) {
  createOrder(orderInput: $input) {
    success
    message
    id
  }
}`

	MutationUpdateOrderStatus = `
mutation UpdateOrderStatus($orderId: String!, $status: String!) {
  updateOrderStatus(orderId: $orderId, status: $status) {
    success
    message
    id
  }
}`

	MutationDeleteOrder = `
mutation DeleteOrder($orderId: String!) {
  deleteOrder(orderId: $orderId) {
    success
    message
  }
}`

	MutationBulkUpdateProductAvailability = `
mutation BulkUpdateProductAvailability($productIds: [String!]!, $available: Boolean!) {
  bulkUpdateProductAvailability(productIds: $productIds, available: $available) {
    success
    message
  }
}`
)
