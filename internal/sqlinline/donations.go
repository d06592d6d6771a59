package sqlinline

const QInsertDonation = `--sql 9b79c57c-3615-48a2-9d85-3426d5b3f7eb
insert into donations(id, case_id, user_id, amount, method, created_at)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::bigint, $4::text, now())
returning id, created_at;
`

const QListDonationsByCase = `--sql 7a08e4f6-cb8a-42c4-bd7f-291d6e913edc
select id, case_id, user_id, amount, method, created_at
from donations
where case_id = $1::uuid
order by created_at desc
limit $2::int;
`
